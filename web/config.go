package web

type Options struct {
	// Called during Configure to register routes on the base-path router.
	Routes []func(r Router)
	// Extra middlewares, installed after request ID, recovery and access log.
	Middlewares []Handler
}

type Option func(*Options)

func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}
