// Package dialect defines the SQL dialect descriptor used to generate
// engine-specific SQL fragments.
//
// A Dialect is pure data plus a table of rule functions. Concrete dialects
// live in pkg/dialects/*/ and register themselves from init(). A dialect
// derived from another one starts from a copy of the parent's rules and
// template patches and replaces only what differs.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/dorisql/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name          string
	DisplayName   string
	Parent        string // name of the dialect this one extends, empty for a root dialect
	DefaultSchema string
	Placeholder   core.PlaceholderStyle

	MaxTableNameLength  int
	TimezonePolicy      core.TimezonePolicy
	TimestampCastPolicy core.TimestampCastPolicy

	declared  Rules // as configured, before policy binding; children extend these
	rules     Rules
	patches   []core.TemplatePatch
	templates core.TemplateSet // resolved once in Build, never handed out directly
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:                d.Name,
		DisplayName:         d.DisplayName,
		DefaultSchema:       d.DefaultSchema,
		Placeholder:         d.Placeholder,
		MaxTableNameLength:  d.MaxTableNameLength,
		TimezonePolicy:      d.TimezonePolicy,
		TimestampCastPolicy: d.TimestampCastPolicy,
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// Rules returns a copy of the dialect's rule table.
func (d *Dialect) Rules() Rules {
	return d.rules
}

// Patches returns the template patches applied on top of BaseTemplates,
// parent patches first.
func (d *Dialect) Patches() []core.TemplatePatch {
	out := make([]core.TemplatePatch, len(d.patches))
	copy(out, d.patches)
	return out
}

// Templates returns a private copy of the resolved template set.
func (d *Dialect) Templates() core.TemplateSet {
	return d.templates.Clone()
}

// DataTypes returns the SQL type names of the dialect's types category, sorted
// by generic name.
func (d *Dialect) DataTypes() []string {
	names := d.templates.Names(core.CategoryTypes)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, d.templates[core.CategoryTypes][n])
	}
	return out
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Identifiers returns the quoting configuration read from the quotes templates.
func (d *Dialect) Identifiers() core.IdentifierConfig {
	quote, _ := d.templates.Get(core.CategoryQuotes, "identifiers")
	escape, ok := d.templates.Get(core.CategoryQuotes, "escape")
	if !ok {
		escape = quote + quote
	}
	return core.IdentifierConfig{Quote: quote, QuoteEnd: quote, Escape: escape}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	ids := d.Identifiers()
	if ids.Quote == "" {
		return name
	}
	// Escape any existing quote end characters in the name (e.g., ` -> \`)
	escaped := strings.ReplaceAll(name, ids.QuoteEnd, ids.Escape)
	return ids.Quote + escaped + ids.QuoteEnd
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a root dialect builder from a DialectConfig. Rules start as
// the generic defaults and templates as BaseTemplates.
func New(cfg *core.DialectConfig) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:                cfg.Name,
			DisplayName:         displayName(cfg),
			DefaultSchema:       cfg.DefaultSchema,
			Placeholder:         cfg.Placeholder,
			MaxTableNameLength:  cfg.MaxTableNameLength,
			TimezonePolicy:      cfg.TimezonePolicy,
			TimestampCastPolicy: cfg.TimestampCastPolicy,
			declared:            DefaultRules(),
		},
	}
}

// Extend creates a builder for a dialect derived from base. The new dialect
// inherits base's rules and template patches; cfg supplies its own settings.
// Rules are inherited as base declared them, so base's policies do not carry
// over to the child.
func Extend(base *Dialect, cfg *core.DialectConfig) *Builder {
	b := New(cfg)
	b.dialect.Parent = base.Name
	b.dialect.declared = base.declared
	b.dialect.patches = base.Patches()
	return b
}

// Rules returns the rules as currently configured. Capture a field before
// replacing it to delegate to the inherited behavior.
func (b *Builder) Rules() Rules {
	return b.dialect.declared
}

// TimeGroupedColumn sets the time bucketing rule.
func (b *Builder) TimeGroupedColumn(fn TimeGroupedColumnFunc) *Builder {
	b.dialect.declared.TimeGroupedColumn = fn
	return b
}

// AddInterval sets the interval addition rule.
func (b *Builder) AddInterval(fn IntervalFunc) *Builder {
	b.dialect.declared.AddInterval = fn
	return b
}

// SubtractInterval sets the interval subtraction rule.
func (b *Builder) SubtractInterval(fn IntervalFunc) *Builder {
	b.dialect.declared.SubtractInterval = fn
	return b
}

// ConvertTz sets the timezone conversion rule.
func (b *Builder) ConvertTz(fn ConvertTzFunc) *Builder {
	b.dialect.declared.ConvertTz = fn
	return b
}

// TimeStampCast sets the timestamp cast rule.
func (b *Builder) TimeStampCast(fn CastFunc) *Builder {
	b.dialect.declared.TimeStampCast = fn
	return b
}

// PreAggregationTableName sets the pre-aggregation naming rule.
func (b *Builder) PreAggregationTableName(fn TableNameFunc) *Builder {
	b.dialect.declared.PreAggregationTableName = fn
	return b
}

// Templates appends template patches. Patches apply in call order after the
// parent's.
func (b *Builder) Templates(patches ...core.TemplatePatch) *Builder {
	b.dialect.patches = append(b.dialect.patches, patches...)
	return b
}

// Build returns the constructed dialect.
//
// The configured policies are bound here: a passthrough timezone policy
// replaces ConvertTz with the identity and an elided cast policy replaces
// TimeStampCast with the identity, so a dialect can never combine both
// behaviors. Binding touches only the built dialect's copy of the rules.
func (b *Builder) Build() *Dialect {
	d := b.dialect

	d.rules = d.declared
	if d.TimezonePolicy == core.TimezonePassthrough {
		d.rules.ConvertTz = passthroughTz
	}
	if d.TimestampCastPolicy == core.CastElided {
		d.rules.TimeStampCast = identityCast
	}

	d.templates = BaseTemplates().Apply(d.patches...)
	return d
}

func displayName(cfg *core.DialectConfig) string {
	if cfg.DisplayName != "" {
		return cfg.DisplayName
	}
	return cfg.Name
}
