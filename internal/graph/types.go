package graph

// Symbol is a constant or variable name used as a predicate argument.
type Symbol struct {
	Name   string
	Usages []*Usage
}

// Usage points from a symbol back to one argument slot it fills.
// It does not own the predicate or the application.
type Usage struct {
	Position    int
	Predicate   *Predicate
	Application *Application
}

// Predicate is a named relation and every application of it.
type Predicate struct {
	Name         string
	Applications []*Application
}

// Application is one occurrence of a predicate with its ordered arguments.
// Arity belongs to the application, not to the predicate.
type Application struct {
	Index     int // position within Predicate.Applications
	Arity     int
	Arguments []*Symbol
}

// AddUsage records that s fills argument position pos of app.
func (s *Symbol) AddUsage(pos int, pred *Predicate, app *Application) *Usage {
	u := &Usage{
		Position:    pos,
		Predicate:   pred,
		Application: app,
	}
	s.Usages = append(s.Usages, u)
	return u
}

// AddApplication appends an application with a copy of args.
func (p *Predicate) AddApplication(args []*Symbol) *Application {
	app := &Application{
		Index:     len(p.Applications),
		Arity:     len(args),
		Arguments: append([]*Symbol(nil), args...),
	}
	p.Applications = append(p.Applications, app)
	return app
}

// ArgumentNames returns the names of the application's arguments in order.
func (a *Application) ArgumentNames() []string {
	names := make([]string, len(a.Arguments))
	for i, s := range a.Arguments {
		names[i] = s.Name
	}
	return names
}
