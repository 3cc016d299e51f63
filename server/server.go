package server

import (
	"crypto/tls"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/acme/autocert"

	"github.com/serisow/loopforge/handlers"
)

// SetupRoutes wires the render API. The dashboard UI lives elsewhere; this
// surface is just job submission and status polling.
func SetupRoutes(videoHandler *handlers.VideoHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/videos/generate", videoHandler.GenerateVideo).Methods("POST")
	r.HandleFunc("/videos/{job_id}/progress", videoHandler.GetProgress).Methods("GET")
	r.HandleFunc("/videos/{job_id}/result", videoHandler.GetResult).Methods("GET")
	r.HandleFunc("/videos/history", videoHandler.ListHistory).Methods("GET")

	return r
}

// ServeProduction serves HTTPS with autocert-managed certificates and
// redirects plain HTTP to it.
func ServeProduction(n *negroni.Negroni, domains []string, certCacheDir, httpsPort string) {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(certCacheDir),
	}

	// Port 80 answers ACME http-01 challenges and redirects everything else.
	go func() {
		srv := &http.Server{
			Addr:         ":80",
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		err := srv.ListenAndServe()
		log.Fatal(err)
	}()

	tlsConfig := &tls.Config{
		GetCertificate:           autocertManager.GetCertificate,
		PreferServerCipherSuites: true,
		CurvePreferences:         []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         ":" + httpsPort,
		Handler:      n,
		TLSConfig:    tlsConfig,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Fatal(srv.ListenAndServeTLS("", ""))
}

// ServeDevelopment serves plain HTTP.
func ServeDevelopment(srv *http.Server) {
	log.Fatal(srv.ListenAndServe())
}
