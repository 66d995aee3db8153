package assets

// Built-in asset names.
const (
	DefaultStyleName        = "default"
	EmbedTemplateName       = "embed"
	EmbedPandocTemplateName = "embed-pandoc"
	PageTemplateName        = "page"
)

// Kind is a category of asset: the directory it lives in, its file
// extension, and the error reported when a name is missing.
type Kind struct {
	Dir      string
	Ext      string
	NotFound error
}

// Asset kinds.
var (
	Styles    = Kind{Dir: "styles", Ext: ".css", NotFound: ErrStyleNotFound}
	Templates = Kind{Dir: "templates", Ext: ".html", NotFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name below the asset root.
func (k Kind) file(name string) string {
	return k.Dir + "/" + name + k.Ext
}

var builtin = NewEmbeddedLoader()

// LoadStyle loads a built-in theme stylesheet by name, without .css.
func LoadStyle(name string) (string, error) {
	return builtin.Load(Styles, name)
}

// LoadTemplate loads a built-in HTML template by name, without .html.
func LoadTemplate(name string) (string, error) {
	return builtin.Load(Templates, name)
}

// StyleNames lists the built-in theme names, sorted.
func StyleNames() []string {
	return builtin.Names(Styles)
}
