package ports

// Media types understood by Minifier.
const (
	MediaHTML       = "text/html"
	MediaCSS        = "text/css"
	MediaJavaScript = "text/javascript"
)

// Minifier minifies text of a given media type.
//
//go:generate go run go.uber.org/mock/mockgen -source=minifier.go -destination=mocks/mock_minifier.go -package=mocks
type Minifier interface {
	Minify(mediaType string, content []byte) ([]byte, error)
}
