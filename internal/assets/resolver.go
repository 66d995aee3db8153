package assets

// AssetResolver looks assets up in a project directory first and in the
// built-in set second. Only not-found errors fall through to the next source;
// invalid names and read failures are returned as is.
type AssetResolver struct {
	sources []source
}

// NewAssetResolver returns a resolver over dir and the built-in assets. An
// empty dir uses the built-in assets only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.sources = append(r.sources, custom)
	}
	r.sources = append(r.sources, NewEmbeddedLoader())
	return r, nil
}

// Load returns the first source's asset of the given kind.
func (r *AssetResolver) Load(kind Kind, name string) (string, error) {
	var err error
	for _, src := range r.sources {
		var content string
		if content, err = src.Load(kind, name); err == nil {
			return content, nil
		}
		if !IsNotFound(err) {
			return "", err
		}
	}
	return "", err
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) { return r.Load(Styles, name) }

// LoadTemplate implements AssetLoader.
func (r *AssetResolver) LoadTemplate(name string) (string, error) { return r.Load(Templates, name) }

// HasCustomLoader reports whether a project asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.sources) > 1
}

var (
	_ AssetLoader = (*AssetResolver)(nil)
	_ source      = (*AssetResolver)(nil)
)
