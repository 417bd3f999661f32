package rest

import (
	"io"
	"net/http"
)

const banner = "wordtier: difficulty-tiered word dictionaries\n" +
	"GET /words/generate-dictionary/{ageGroup}/{difficultyLevel}\n" +
	"GET /words/classify/{ageGroup}\n"

// Home serves a short plain-text banner. Mount it on "GET /{$}".
func Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, banner) //nolint:errcheck
}
