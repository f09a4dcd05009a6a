package main

import (
	"errors"
	"io"
	"log"
	"net/http"
)

var errNotFound = errors.New("nothing here")

//fnwrap:trace
func index(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "hello world")
}

//fnwrap:pre log.Printf("%s %s", r.Method, r.URL.Path)
func noticeError(w http.ResponseWriter, r *http.Request) {
	err := lookup(r.URL.Path)
	if err != nil {
		io.WriteString(w, err.Error())
	} else {
		io.WriteString(w, "no errors occurred")
	}
}

//fnwrap:post if result != nil { log.Println("lookup failed:", result) }
func lookup(path string) error {
	if path != "/error" {
		return errNotFound
	}
	return nil
}

func main() {
	// some comments
	http.HandleFunc("/", index)
	http.HandleFunc("/error", noticeError)

	log.Fatal(http.ListenAndServe(":8000", nil))
}
