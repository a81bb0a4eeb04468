package main

import (
	"fmt"
	"io"

	"github.com/gufeijun/bodydecode/httpd"
)

type echoHandler struct{}

func (*echoHandler) ServeHTTP(w httpd.ResponseWriter, r *httpd.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "body decode failed: %v", err)
		return
	}
	w.WriteHeader(200)
	fmt.Fprintf(w, "%s %s read %d body bytes\n", r.Method, r.RequestURI, len(body))
}

func main() {
	svr := httpd.Server{
		Addr:    "127.0.0.1:8088",
		Handler: new(echoHandler),
	}

	panic(svr.ListenAndServe())
}
