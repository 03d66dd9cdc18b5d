package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects group-wide middleware and feature modules, then mounts
// them under a single prefix. Middleware added with Use runs before every
// module route; modules may add their own per-route middleware on top.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	middlewares []gin.HandlerFunc
	modules     []Module
	mounted     bool
}

func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(prefix)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add queues modules for registration. Nil modules are skipped so optional
// features can be passed straight through.
func (r *Registry) Add(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.modules = append(r.modules, m)
		}
	}
}

// RegisterAll mounts everything queued so far. gin panics on duplicate
// routes, so a second call is a no-op.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	r.API.Use(r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Len reports how many modules are queued.
func (r *Registry) Len() int { return len(r.modules) }
