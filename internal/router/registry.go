package router

import "github.com/gin-gonic/gin"

// Module is a slice of the HTTP surface (auth, oauth, ...) that knows how
// to mount its own routes under the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects feature modules and the middlewares shared by all of
// them, then mounts everything under /api in one pass.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{
		Engine: engine,
		API:    engine.Group("/api"),
	}
}

// Use appends middlewares applied to every module's routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.shared = append(r.shared, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts shared middlewares first so every module's routes see
// them, then lets each module register its endpoints.
func (r *Registry) RegisterAll() {
	if len(r.shared) > 0 {
		r.API.Use(r.shared...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
