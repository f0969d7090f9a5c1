package shell

// NewExecutorWithEnviron creates an Executor that inherits env instead of the process environment.
func NewExecutorWithEnviron(env []string) *Executor {
	return &Executor{
		environ: func() []string { return env },
	}
}
