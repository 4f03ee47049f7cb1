package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scriptscore/pkg/analysis"
	"scriptscore/pkg/catalog"
	"scriptscore/pkg/document"
	"scriptscore/pkg/inclusion"
	"scriptscore/pkg/report"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errServerConfig   = errors.New("server configuration")
)

func newServeCommand(appRef func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve analysis and scoring over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           newServer(a),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infof("Server starting on :%s", a.cfg.Port)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				log.Info("Shutting down server")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().String("port", "", "Listen port (PORT)")
	cmd.Flags().String("request-timeout", "", "Per-request processing timeout (REQUEST_TIMEOUT)")
	return cmd
}

func enableCors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

type server struct {
	app *app
}

func newServer(a *app) http.Handler {
	s := &server{app: a}
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.route(http.MethodPost, s.handleAnalyze))
	mux.HandleFunc("/score", s.route(http.MethodPost, s.handleScore))
	mux.HandleFunc("/compare", s.route(http.MethodPost, s.handleCompare))
	mux.HandleFunc("/catalog", s.route(http.MethodGet, s.handleCatalog))
	return mux
}

// route applies CORS, answers preflight requests and enforces method.
func (s *server) route(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enableCors(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != method {
			w.Header().Set("Allow", method+", "+http.MethodOptions)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		startTime := time.Now()
		log.Infof("=== NEW REQUEST === From: %s | Method: %s | Path: %s", r.RemoteAddr, r.Method, r.URL.Path)
		defer func() {
			log.Infof("=== REQUEST COMPLETED IN %v ===", time.Since(startTime))
		}()
		next(w, r)
	}
}

func (s *server) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(s.app.cfg.MaxDocumentBytes + 1<<20)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(r); err != nil {
		s.fail(w, "FORM PARSE ERROR", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.app.cfg.RequestTimeout)
	defer cancel()

	session, err := s.session(ctx, r, "")
	if err != nil {
		s.fail(w, "ANALYSIS FAILED", err)
		return
	}
	log.Infof("RESPONSE READY | Speakers: %d | Ranked: %d", session.Tally.Len(), len(session.Ranked))
	s.writeJSON(w, session)
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(r); err != nil {
		s.fail(w, "FORM PARSE ERROR", err)
		return
	}
	groups, err := s.groups(r)
	if err != nil {
		s.fail(w, "VALIDATION FAILED", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.app.cfg.RequestTimeout)
	defer cancel()

	session, err := s.session(ctx, r, "")
	if err != nil {
		s.fail(w, "ANALYSIS FAILED", err)
		return
	}
	s.writeScores(w, r.FormValue("format"), "Inclusion Report", s.app.analyzer.Score(session, groups))
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(r); err != nil {
		s.fail(w, "FORM PARSE ERROR", err)
		return
	}
	groups, err := s.groups(r)
	if err != nil {
		s.fail(w, "VALIDATION FAILED", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.app.cfg.RequestTimeout)
	defer cancel()

	var sessions [2]*analysis.Session
	g, gctx := errgroup.WithContext(ctx)
	for i, suffix := range []string{"1", "2"} {
		i, suffix := i, suffix
		g.Go(func() error {
			session, err := s.session(gctx, r, suffix)
			if err != nil {
				return fmt.Errorf("document %s: %w", suffix, err)
			}
			sessions[i] = session
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, "COMPARISON FAILED", err)
		return
	}

	s.writeScores(w, r.FormValue("format"), "Comparison Report",
		s.app.analyzer.Score(sessions[0], groups), s.app.analyzer.Score(sessions[1], groups))
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := s.app.loadCatalog()
	if err != nil {
		s.fail(w, "CATALOG LOAD FAILED", fmt.Errorf("%w: %v", errServerConfig, err))
		return
	}
	s.writeJSON(w, c.Entries)
}

// session analyzes the document named by the file, url or text field.
// suffix distinguishes the two documents of a comparison.
func (s *server) session(ctx context.Context, r *http.Request, suffix string) (*analysis.Session, error) {
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["file"+suffix]; len(headers) > 0 {
			f, err := headers[0].Open()
			if err != nil {
				return nil, fmt.Errorf("%w: open upload: %v", errInvalidRequest, err)
			}
			defer f.Close()
			log.Infof("RECEIVED UPLOAD | Name: %s | Size: %d", headers[0].Filename, headers[0].Size)
			doc, err := s.app.source.Read(f, headers[0].Filename)
			if err != nil {
				return nil, err
			}
			session := s.app.analyzer.AnalyzeLines(headers[0].Filename, doc.Lines())
			session.Pages = doc.Pages
			return session, nil
		}
	}

	if locator := r.FormValue("url" + suffix); locator != "" {
		if !document.IsURL(locator) {
			return nil, fmt.Errorf("%w: url must be an absolute http or https URL", errInvalidRequest)
		}
		log.Infof("RECEIVED URL | %s", locator)
		return s.app.analyzer.Analyze(ctx, locator)
	}

	if text := r.FormValue("text" + suffix); text != "" {
		log.Infof("RECEIVED TEXT | Length: %d", len(text))
		doc, err := s.app.source.Extract("text"+suffix, []byte(text))
		if err != nil {
			return nil, err
		}
		return s.app.analyzer.AnalyzeLines(doc.Locator, doc.Lines()), nil
	}

	return nil, document.ErrEmptyLocator
}

func (s *server) groups(r *http.Request) (inclusion.Groups, error) {
	sel := groupSelection{
		A:      r.Form["a"],
		B:      r.Form["b"],
		LabelA: r.FormValue("label_a"),
		LabelB: r.FormValue("label_b"),
		Preset: r.FormValue("preset"),
	}
	return sel.resolve(func() (*inclusion.Presets, error) {
		presets, err := s.app.loadPresets()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errServerConfig, err)
		}
		return presets, nil
	})
}

func (s *server) writeScores(w http.ResponseWriter, format, title string, results ...analysis.Scored) {
	switch format {
	case "", "json":
		if len(results) == 1 {
			s.writeJSON(w, results[0])
		} else {
			s.writeJSON(w, results)
		}
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown(title, results...))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.HTML(report.Markdown(title, results...)))
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=inclusion-report.pdf")
		if err := report.WritePDF(w, title, results...); err != nil {
			log.Errorf("PDF CONVERSION FAILED: %v", err)
			http.Error(w, "PDF generation failed", http.StatusInternalServerError)
		}
	default:
		s.fail(w, "VALIDATION FAILED", fmt.Errorf("%w: unsupported format %q", errInvalidRequest, format))
	}
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, v); err != nil {
		log.Errorf("RESPONSE WRITE FAILED: %v", err)
	}
}

func (s *server) fail(w http.ResponseWriter, tag string, err error) {
	status := statusFor(err)
	log.Warnf("%s: %v (status %d)", tag, err, status)
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, document.ErrEmptyLocator),
		errors.Is(err, inclusion.ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrTitleNotFound):
		return http.StatusNotFound
	case errors.Is(err, document.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errServerConfig):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
