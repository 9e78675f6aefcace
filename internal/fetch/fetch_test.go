package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_HeadersAndDefaults(t *testing.T) {
	var gotUserAgent, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	// Partial options: the unset fields fall back to the package defaults
	_, err := URL(context.Background(), server.URL, &Options{
		Headers: map[string]string{"Referer": "https://example.com/search"},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
	assert.Equal(t, "https://example.com/search", gotReferer)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>William A. Smith</h1>
				<p>Passed away peacefully on June 8, 2024.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "William A. Smith")
	assert.Contains(t, text, "June 8, 2024")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_WithArticleElement(t *testing.T) {
	html := `
	<html>
		<body>
			<article>
				<h1>Obituary</h1>
				<p>In loving memory.</p>
			</article>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Obituary")
	assert.Contains(t, text, "In loving memory")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_ObituaryPageSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="obituary-text">
				<h2>William Smith, 81</h2>
				<p>Visitation June 12, 2024 at the funeral home.</p>
			</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, ObituaryPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "William Smith, 81")
	assert.Contains(t, text, "Visitation June 12, 2024")
	assert.NotContains(t, text, "Sidebar junk")
}

func TestExtractMainText_NoiseSelectorsRemoved(t *testing.T) {
	html := `
	<html>
		<body>
			<main>
				<p>Beloved husband and father.</p>
				<div class="guest-book">Sign the guest book</div>
				<div class="send-flowers">Send flowers</div>
			</main>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors(), SiteNoiseSelectors(SiteUnknown)...)
	require.NoError(t, err)
	assert.Contains(t, text, "Beloved husband")
	assert.NotContains(t, text, "guest book")
	assert.NotContains(t, text, "Send flowers")
}

func TestTitle(t *testing.T) {
	html := `
	<html>
		<head><title>  William A. Smith Obituary - Columbus, OH  </title></head>
		<body><p>Obituary text.</p></body>
	</html>`

	assert.Equal(t, "William A. Smith Obituary - Columbus, OH", Title(html))
}

func TestTitle_Missing(t *testing.T) {
	assert.Equal(t, "", Title("<html><body><p>No title here.</p></body></html>"))
}

func TestDefaultTextSelectors(t *testing.T) {
	selectors := DefaultTextSelectors()
	assert.Contains(t, selectors, "main")
	assert.Contains(t, selectors, "article")
}

func TestObituaryPageSelectors(t *testing.T) {
	selectors := ObituaryPageSelectors()
	assert.Contains(t, selectors, ".obituary-text")
	assert.Contains(t, selectors, "#obituary")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("   \n\t  "))
	assert.True(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength-1)))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))

	padded := "  " + strings.Repeat("x", MinContentLength-1) + "  "
	assert.True(t, ShouldUseBrowser(padded), "surrounding whitespace should not count")
}
