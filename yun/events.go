package yun

// Event is a message from a running script to its host.
type Event interface {
	event()
}

// RenderEvent carries a payload passed to render. The payload is a deep
// copy, so the host may read it while the script keeps running.
type RenderEvent struct {
	Payload Value
}

// DimensionsRequest asks the host for its output size. The host must send
// exactly one reply; the script blocks until it does.
type DimensionsRequest struct {
	Reply chan<- Dimensions
}

type Dimensions struct {
	Width  int
	Height int
}

func (RenderEvent) event()       {}
func (DimensionsRequest) event() {}

// emit sends ev to the host. Only the channel's own backpressure applies;
// without a host the event is dropped.
func (exec *Execution) emit(ev Event) error {
	events := exec.interp.config.Events
	if events == nil {
		exec.interp.config.Logger.Debug("dropping event without host", "event", ev)
		return nil
	}
	select {
	case events <- ev:
		return nil
	case <-exec.ctx.Done():
		return exec.ctx.Err()
	}
}

func (exec *Execution) requestDimensions() (Dimensions, error) {
	if exec.interp.config.Events == nil {
		return Dimensions{}, nil
	}
	reply := make(chan Dimensions, 1)
	if err := exec.emit(DimensionsRequest{Reply: reply}); err != nil {
		return Dimensions{}, err
	}
	select {
	case dims := <-reply:
		return dims, nil
	case <-exec.ctx.Done():
		return Dimensions{}, exec.ctx.Err()
	}
}
