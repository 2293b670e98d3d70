package resolver

import (
	"log/slog"

	"github.com/roach88/stratui/internal/ir"
)

// Resolver resolves popover decisions. The zero value is not usable; call
// New. A Resolver holds no per-pass state and is safe for concurrent use.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCatalog replaces the default type-to-label-field catalog.
func WithCatalog(c Catalog) Option {
	return func(r *Resolver) {
		r.catalog = c.Clone()
	}
}

// WithLogger sets the logger anomalies are reported to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver with the default catalog and slog.Default().
func New(opts ...Option) *Resolver {
	r := &Resolver{
		catalog: DefaultCatalog(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns a copy of the catalog in use.
func (r *Resolver) Catalog() Catalog {
	return r.catalog.Clone()
}

// Resolve decides the popover state and label for the control identified by
// this. currentLabel is the label the handle shows right now; it is used
// when a chosen option carries no label of its own.
func (r *Resolver) Resolve(trigger ir.TriggerContext, this *ir.ControlIdentity, store ir.LabelStore, currentLabel string) ir.Decision {
	d, _ := r.resolve(trigger, this, store, currentLabel, nil)
	return d
}

// ResolveWithTrace is Resolve plus the ordered steps that produced the
// decision.
func (r *Resolver) ResolveWithTrace(trigger ir.TriggerContext, this *ir.ControlIdentity, store ir.LabelStore, currentLabel string) (ir.Decision, Trace) {
	trace := Trace{}
	return r.resolve(trigger, this, store, currentLabel, &trace)
}

func (r *Resolver) resolve(trigger ir.TriggerContext, this *ir.ControlIdentity, store ir.LabelStore, currentLabel string, trace *Trace) (ir.Decision, Trace) {
	if this == nil || !this.Complete() {
		r.logger.Debug("resolve skipped: control identity missing or incomplete")
		trace.add(StageIdentity, OutcomeMissingIdentity, "")
		return ir.NoChange(), deref(trace)
	}

	d := r.classifyTrigger(trigger, *this, currentLabel, trace)
	d.Label = r.applyStore(d.Label, *this, store, trace)
	return d, deref(trace)
}

// classifyTrigger covers attribution and classification (steps 1 and 2).
func (r *Resolver) classifyTrigger(trigger ir.TriggerContext, this ir.ControlIdentity, currentLabel string, trace *Trace) ir.Decision {
	event, ok := trigger.First()
	if !ok {
		trace.add(StageAttribution, OutcomeNoTrigger, "")
		return ir.NoChange()
	}

	parsed := ir.ParseTriggerID(event.PropID)
	trig, ok := parsed.Identity()
	if !ok {
		r.logger.Debug("trigger not attributable", "prop_id", event.PropID, "reason", parsed.Reason())
		trace.add(StageAttribution, OutcomeUnparseable, parsed.Reason())
		return ir.NoChange()
	}
	trace.add(StageAttribution, OutcomeAttributed, event.PropID)

	switch {
	case trig.Role == ir.RoleInput:
		clicks := event.Clicks()
		if clicks > 0 {
			trace.add(StageTrigger, OutcomeHandleOpened, "")
			return ir.Decision{Opened: ir.Set(true)}
		}
		trace.add(StageTrigger, OutcomeHandleIdle, "")
		return ir.NoChange()

	case trig.Type == ir.TypeOptionButton:
		if !ir.ScopeEqual(trig, this) {
			trace.add(StageTrigger, OutcomeOtherScope, string(trig.ScopeKey()))
			return ir.NoChange()
		}
		label := currentLabel
		if trig.Label.Truthy() {
			label = trig.Label.Text
		}
		trace.add(StageTrigger, OutcomeOptionChosen, label)
		return ir.Decision{Opened: ir.Set(false), Label: ir.Set(label)}

	default:
		trace.add(StageTrigger, OutcomeIgnored, trig.Type)
		return ir.NoChange()
	}
}

// applyStore is step 3: a committed label for this control's scope and type
// wins over whatever step 2 proposed.
func (r *Resolver) applyStore(label ir.Slot[string], this ir.ControlIdentity, store ir.LabelStore, trace *Trace) ir.Slot[string] {
	if store == nil {
		trace.add(StageStore, OutcomeNoStore, "")
		return label
	}

	field, ok := r.catalog.Field(this.Type)
	if !ok {
		trace.add(StageStore, OutcomeUncatalogued, this.Type)
		return label
	}

	key := this.ScopeKey()
	record, ok := store.Lookup(key)
	if !ok {
		trace.add(StageStore, OutcomeNoEntry, string(key))
		return label
	}

	committed, ok := record.Get(field)
	if !ok {
		trace.add(StageStore, OutcomeNoCommitted, string(field))
		return label
	}

	trace.add(StageStore, OutcomeCommitted, committed)
	return ir.Set(committed)
}

func deref(t *Trace) Trace {
	if t == nil {
		return nil
	}
	return *t
}

var defaultResolver = New()

// Resolve runs the default resolver. See Resolver.Resolve.
func Resolve(trigger ir.TriggerContext, this *ir.ControlIdentity, store ir.LabelStore, currentLabel string) ir.Decision {
	return defaultResolver.Resolve(trigger, this, store, currentLabel)
}
