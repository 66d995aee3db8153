package assets

// AssetLoader loads theme styles and HTML templates by name.
// Implementations return ErrInvalidAssetName for unsafe names and the kind's
// not-found error (ErrStyleNotFound, ErrTemplateNotFound) for missing ones.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// source loads any kind of asset. Every loader in this package is one.
type source interface {
	Load(kind Kind, name string) (string, error)
}
