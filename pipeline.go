// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netchan

// Handler receives Channel lifecycle and data events. Every method has a no-op default
// via BaseHandler so implementations only override what they need, the same
// partial-implementation convention this codebase uses for its transport-mode
// interfaces.
type Handler interface {
	ChannelRegistered(c *Channel)
	ChannelUnregistered(c *Channel)
	ChannelActive(c *Channel)
	ChannelInactive(c *Channel)
	ChannelRead(c *Channel, buf Buffer)
	ChannelReadComplete(c *Channel)
	ChannelWritabilityChanged(c *Channel, writable bool)
	ErrorCaught(c *Channel, err error)
}

// BaseHandler is embeddable in a Handler implementation to satisfy the interface with
// no-ops, so a handler that only cares about reads doesn't have to stub the rest.
type BaseHandler struct{}

func (BaseHandler) ChannelRegistered(*Channel)                    {}
func (BaseHandler) ChannelUnregistered(*Channel)                  {}
func (BaseHandler) ChannelActive(*Channel)                        {}
func (BaseHandler) ChannelInactive(*Channel)                      {}
func (BaseHandler) ChannelRead(*Channel, Buffer)                  {}
func (BaseHandler) ChannelReadComplete(*Channel)                  {}
func (BaseHandler) ChannelWritabilityChanged(*Channel, bool)      {}
func (BaseHandler) ErrorCaught(*Channel, error)                   {}

// Pipeline is an ordered chain of Handlers. The handler dispatch graph proper (matching,
// filtering, per-handler context propagation) is out of scope for this module; Pipeline
// is the minimal ordered-broadcast implementation needed to exercise and test Channel:
// each Fire* call invokes every registered Handler's corresponding method, in
// registration order.
type Pipeline struct {
	handlers []Handler
}

// NewPipeline returns an empty Pipeline.
func NewPipeline() *Pipeline { return &Pipeline{} }

// AddLast appends h to the end of the pipeline.
func (p *Pipeline) AddLast(h Handler) *Pipeline {
	p.handlers = append(p.handlers, h)
	return p
}

func (p *Pipeline) FireChannelRegistered(c *Channel) {
	for _, h := range p.handlers {
		h.ChannelRegistered(c)
	}
}

func (p *Pipeline) FireChannelUnregistered(c *Channel) {
	for _, h := range p.handlers {
		h.ChannelUnregistered(c)
	}
}

func (p *Pipeline) FireChannelActive(c *Channel) {
	for _, h := range p.handlers {
		h.ChannelActive(c)
	}
}

func (p *Pipeline) FireChannelInactive(c *Channel) {
	for _, h := range p.handlers {
		h.ChannelInactive(c)
	}
}

func (p *Pipeline) FireChannelRead(c *Channel, buf Buffer) {
	for _, h := range p.handlers {
		h.ChannelRead(c, buf)
	}
}

func (p *Pipeline) FireChannelReadComplete(c *Channel) {
	for _, h := range p.handlers {
		h.ChannelReadComplete(c)
	}
}

func (p *Pipeline) FireChannelWritabilityChanged(c *Channel, writable bool) {
	for _, h := range p.handlers {
		h.ChannelWritabilityChanged(c, writable)
	}
}

func (p *Pipeline) FireErrorCaught(c *Channel, err error) {
	for _, h := range p.handlers {
		h.ErrorCaught(c, err)
	}
}
