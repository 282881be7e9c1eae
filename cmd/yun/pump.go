package main

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/mgomes/yunscript/yun"
	"gopkg.in/yaml.v3"
)

// host is what a running script talks to: its print output, render
// payloads and dimension queries.
type host interface {
	Output(text string)
	Render(payload yun.Value)
	Dimensions(ctx context.Context) yun.Dimensions
}

// pump moves script output and events to a host on a single goroutine.
// Both channels are unbuffered and the script blocks on each send, so the
// host sees output and renders in the order the script produced them.
type pump struct {
	output chan string
	events chan yun.Event
	done   chan struct{}
}

func newPump() *pump {
	return &pump{
		output: make(chan string),
		events: make(chan yun.Event),
		done:   make(chan struct{}),
	}
}

// Writer returns the io.Writer scripts print to.
func (p *pump) Writer() io.Writer {
	return pumpWriter{p}
}

// serve delivers to h until ctx ends.
func (p *pump) serve(ctx context.Context, h host) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-p.output:
			h.Output(text)
		case ev := <-p.events:
			switch ev := ev.(type) {
			case yun.RenderEvent:
				h.Render(ev.Payload)
			case yun.DimensionsRequest:
				ev.Reply <- h.Dimensions(ctx)
			}
		}
	}
}

type pumpWriter struct {
	p *pump
}

func (w pumpWriter) Write(b []byte) (int, error) {
	select {
	case w.p.output <- string(b):
		return len(b), nil
	case <-w.p.done:
		return 0, io.ErrClosedPipe
	}
}

// renderYAML formats a render payload as a YAML document.
func renderYAML(payload yun.Value) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yun.Export(payload)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
