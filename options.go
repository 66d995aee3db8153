package nbpreview

// Option configures a Previewer.
type Option func(*Previewer)

// WithEngine sets the render engine.
// Panics if e is nil (programmer error).
func WithEngine(e Engine) Option {
	if e == nil {
		panic("nbpreview: WithEngine engine must not be nil")
	}
	return func(p *Previewer) {
		p.engine = e
	}
}

// WithAssetLoader sets the loader for the embed template and, when no engine
// is given, for the default engine's themes.
func WithAssetLoader(loader AssetLoader) Option {
	return func(p *Previewer) {
		p.assets = loader
	}
}

// WithTheme sets the theme passed to the engine for HTML previews.
func WithTheme(name string) Option {
	return func(p *Previewer) {
		p.theme = name
	}
}

// WithPreviews enables or disables rendering. Disabled previews link to the
// notebook files directly.
func WithPreviews(enabled bool) Option {
	return func(p *Previewer) {
		p.enabled = enabled
	}
}

// WithProject sets the project. Book projects get no output notebook.
func WithProject(project Project) Option {
	return func(p *Previewer) {
		p.project = project
	}
}

// WithTempContext sets where embed templates are written. The caller owns
// cleanup. Without it the previewer owns a context released by Close.
func WithTempContext(tmp TempContext) Option {
	return func(p *Previewer) {
		p.temp = tmp
	}
}

// WithProgress sets the progress sink.
func WithProgress(logger ProgressLogger) Option {
	return func(p *Previewer) {
		p.progress = logger
	}
}

// WithQuiet asks engines to suppress their own output.
func WithQuiet(quiet bool) Option {
	return func(p *Previewer) {
		p.quiet = quiet
	}
}

// WithEmbedTemplate selects the embed template by asset name. The default
// depends on the engine.
func WithEmbedTemplate(name string) Option {
	return func(p *Previewer) {
		p.embedName = name
	}
}

// WithDescriptors registers descriptors in order.
func WithDescriptors(descriptors ...Descriptor) Option {
	return func(p *Previewer) {
		for _, d := range descriptors {
			p.descriptors.Register(d)
		}
	}
}
