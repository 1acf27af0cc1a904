package dev

import (
	"bytes"
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumen-dev/lumen/internal/graph"
)

// tracerName identifies the dev server's spans.
const tracerName = "lumen/dev"

// Transformer produces a runtime-loadable replacement body for one module.
type Transformer interface {
	Transform(moduleID string, hot bool, aliases map[string]string) (string, error)
}

// Notifier delivers update and reload messages to connected clients.
type Notifier interface {
	NotifyUpdate(id, body string)
	NotifyReload()
}

// Pipeline turns one changed module into a batch of update broadcasts.
// Affected modules are transformed first and broadcast only if every
// transform succeeded; any failure escalates the whole batch to a full
// reload, so clients never see a partial update.
type Pipeline struct {
	// Graph returns the current module graph.
	Graph func() *graph.Graph

	// Transformer wraps module source into runtime-loadable form.
	Transformer Transformer

	// Notifier broadcasts to connected clients.
	Notifier Notifier

	// Hot disables in-place updates when false; every change becomes a
	// full reload.
	Hot bool
}

// Propagate handles one changed module id. It returns the ids that were
// broadcast as updates, in propagation order, or an error if the batch
// escalated to a reload.
func (p *Pipeline) Propagate(ctx context.Context, changedID string) ([]string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "pipeline.propagate",
		trace.WithAttributes(attribute.String("module.id", changedID)))
	defer span.End()

	if !p.Hot {
		p.Notifier.NotifyReload()
		return nil, nil
	}

	g := p.Graph()
	order := graph.Resolve(g, changedID)
	span.SetAttributes(attribute.Int("module.affected", len(order)))

	bodies := make([]string, len(order))
	for i, id := range order {
		aliases := moduleAliases(g, id)
		body, err := p.Transformer.Transform(id, true, aliases)
		if err != nil {
			metricsTransformError()
			span.RecordError(err)
			span.SetStatus(codes.Error, "transform failed")
			p.Notifier.NotifyReload()
			return nil, err
		}
		bodies[i] = body
	}

	for i, id := range order {
		p.Notifier.NotifyUpdate(id, bodies[i])
	}

	return order, nil
}

// Assemble emits the servable bundle for a freshly built graph: every
// module wrapped into self-registering form, concatenated in dependency
// order so each module has registered its exports before any importer
// runs. The graph is passed in rather than read from p.Graph because
// assembly happens while the new graph is being installed.
func (p *Pipeline) Assemble(ctx context.Context, g *graph.Graph) ([]byte, error) {
	tracer := otel.Tracer(tracerName)
	_, span := tracer.Start(ctx, "pipeline.assemble",
		trace.WithAttributes(attribute.Int("module.count", g.Len())))
	defer span.End()

	var b bytes.Buffer
	for _, id := range g.TopoOrder() {
		body, err := p.Transformer.Transform(id, false, moduleAliases(g, id))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "assemble failed")
			return nil, err
		}
		b.WriteString(body)
	}
	return b.Bytes(), nil
}

func moduleAliases(g *graph.Graph, id string) map[string]string {
	mod, ok := g.Get(id)
	if !ok {
		return nil
	}
	return mod.AliasMap()
}
