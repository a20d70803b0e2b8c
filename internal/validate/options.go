package validate

import "github.com/starford/raido/internal/models"

// Options selects which checks run and how findings are leveled. Document
// acyclicity always runs; every other check can be switched off.
type Options struct {
	itemCycles      bool
	linkValidity    bool
	linkConformance bool
	suspect         bool
	review          bool
	emptyText       bool
	childLinkage    bool
	unlinked        bool
	emptyDocuments  bool

	childLinkageLevel models.Level
	warnAll           bool
	errorAll          bool
	skip              map[string]bool
}

// Option configures a validation run.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		itemCycles:        true,
		linkValidity:      true,
		linkConformance:   true,
		suspect:           true,
		review:            true,
		emptyText:         true,
		childLinkage:      true,
		unlinked:          true,
		emptyDocuments:    true,
		childLinkageLevel: models.LevelInfo,
		skip:              map[string]bool{},
	}
}

// WithoutItemCycles disables item-level link cycle detection.
func WithoutItemCycles() Option { return func(o *Options) { o.itemCycles = false } }

// WithoutLinkValidity disables the per-link validity checks
// (self-link, missing target, inactive target, type mismatches).
func WithoutLinkValidity() Option { return func(o *Options) { o.linkValidity = false } }

// WithoutLinkConformance disables the document-ancestry conformance check.
func WithoutLinkConformance() Option { return func(o *Options) { o.linkConformance = false } }

// WithoutSuspect disables suspect and unverified link detection.
func WithoutSuspect() Option { return func(o *Options) { o.suspect = false } }

// WithoutReview disables the review status checks.
func WithoutReview() Option { return func(o *Options) { o.review = false } }

// WithoutEmptyText disables the blank-text check.
func WithoutEmptyText() Option { return func(o *Options) { o.emptyText = false } }

// WithoutChildLinkage disables the child linkage completeness check.
func WithoutChildLinkage() Option { return func(o *Options) { o.childLinkage = false } }

// WithoutUnlinked disables the unlinked-item completeness check.
func WithoutUnlinked() Option { return func(o *Options) { o.unlinked = false } }

// WithoutEmptyDocuments disables the empty-document check.
func WithoutEmptyDocuments() Option { return func(o *Options) { o.emptyDocuments = false } }

// WithChildLinkageLevel raises (or lowers) the severity of child linkage
// findings. The default is info.
func WithChildLinkageLevel(level models.Level) Option {
	return func(o *Options) { o.childLinkageLevel = level }
}

// WarnAll promotes info findings to warnings.
func WarnAll() Option { return func(o *Options) { o.warnAll = true } }

// ErrorAll promotes warning findings to errors, for exit-code purposes.
func ErrorAll() Option { return func(o *Options) { o.errorAll = true } }

// SkipPrefixes excludes the given documents from validation.
func SkipPrefixes(prefixes ...string) Option {
	return func(o *Options) {
		for _, p := range prefixes {
			o.skip[p] = true
		}
	}
}
