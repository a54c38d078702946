package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/db"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/naming"
	"github.com/jsphweid/cubemidi/render"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveRecord bool
	serveUnit   string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetServeAddr(), "address to listen on")
	serveCmd.Flags().BoolVar(&serveRecord, "record", constants.GetImportsTable() != "", "record imports in DynamoDB (needs IMPORTS_TABLE)")
	serveCmd.Flags().StringVar(&serveUnit, "time-unit", constants.GetTimeUnit(), "time unit of the served scene")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves an in-memory scene over http",
	Long: `Serves a single in-memory scene. POST a midi file to /import, POST /clear to
delete imported content, and GET /scene, /scene.mel or /preview.png to read it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, err := newRecorder(serveRecord)
		if err != nil {
			return err
		}
		s := scene.New()
		s.TimeUnit = serveUnit
		srv := NewServer(s, recorder)

		log.WithField("addr", serveAddr).Info("Serving")
		return http.ListenAndServe(serveAddr, srv.Handler())
	},
}

// Server owns one scene. Imports and clears run one at a time.
type Server struct {
	mu       sync.Mutex
	scene    *scene.Scene
	recorder db.Recorder
}

func NewServer(s *scene.Scene, recorder db.Recorder) *Server {
	return &Server{scene: s, recorder: recorder}
}

func (srv *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/import", srv.HandleImport).Methods("POST")
	router.HandleFunc("/clear", srv.HandleClear).Methods("POST")
	router.HandleFunc("/scene", srv.HandleScene).Methods("GET")
	router.HandleFunc("/scene.mel", srv.HandleMEL).Methods("GET")
	router.HandleFunc("/preview.png", srv.HandlePreview).Methods("GET")

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Could not write response")
	}
}

func importStatus(err error) int {
	switch {
	case errors.Is(err, translate.ErrMissingInput),
		errors.Is(err, translate.ErrParseFailure),
		errors.Is(err, translate.ErrBadParameters),
		errors.Is(err, translate.ErrUnknownTimeUnit):
		return http.StatusBadRequest
	case errors.Is(err, translate.ErrNameTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func parseFloatParam(q url.Values, key string, dst *float64) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrapf(translate.ErrBadParameters, "%s: %v", key, err)
	}
	*dst = f
	return nil
}

func parseBoolParam(q url.Values, key string, dst *bool) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(translate.ErrBadParameters, "%s: %v", key, err)
	}
	*dst = b
	return nil
}

// parseCueParameters reads the query string on top of the defaults. Keys
// match the json names of model.CueParameters.
func parseCueParameters(q url.Values) (model.CueParameters, error) {
	p := model.DefaultCueParameters()
	floats := map[string]*float64{
		"attack_frames":      &p.AttackFrames,
		"decay_frames":       &p.DecayFrames,
		"sustain_factor":     &p.SustainFactor,
		"release_frames":     &p.ReleaseFrames,
		"min_velocity_scale": &p.MinVelocityScale,
		"max_velocity_scale": &p.MaxVelocityScale,
		"pitch_translation":  &p.PitchTranslation,
		"frames_per_second":  &p.FramesPerSecond,
	}
	for key, dst := range floats {
		if err := parseFloatParam(q, key, dst); err != nil {
			return p, err
		}
	}
	if err := parseBoolParam(q, "round_frames", &p.RoundFrames); err != nil {
		return p, err
	}
	if err := parseBoolParam(q, "create_display_layers", &p.CreateDisplayLayers); err != nil {
		return p, err
	}
	return p, nil
}

func (srv *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	params, err := parseCueParameters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("midi file is larger than %d bytes", tooLarge.Limit))
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, translate.ErrMissingInput)
		return
	}

	srv.mu.Lock()
	res, err := translate.ImportReader(bytes.NewReader(body), params, srv.scene)
	srv.mu.Unlock()
	if err != nil {
		writeError(w, importStatus(err), err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "<upload>"
	}
	if err := srv.recorder.Record(newRecord(name, res, params)); err != nil {
		log.WithError(err).Warn("Could not record import")
	}

	writeJSON(w, model.ImportResponse{
		RunID:           res.RunID,
		Channels:        res.Channels,
		Cubes:           res.Cubes,
		Keys:            res.Keys,
		LastFrame:       res.LastFrame,
		SkippedBends:    res.SkippedBends,
		FramesPerSecond: res.FramesPerSecond,
	})
}

func (srv *Server) HandleClear(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	deleted, err := srv.scene.DeleteMatching(naming.Pattern)
	srv.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, model.ClearResponse{Deleted: deleted})
}

func (srv *Server) HandleScene(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if err := export.EncodeJSON(w, srv.scene); err != nil {
		log.WithError(err).Warn("Could not write scene")
	}
}

func (srv *Server) HandleMEL(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	if err := export.WriteMEL(w, srv.scene); err != nil {
		log.WithError(err).Warn("Could not write mel")
	}
}

func (srv *Server) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var frame float64
	if err := parseFloatParam(r.URL.Query(), "frame", &frame); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	srv.mu.Lock()
	err := render.WritePNG(&buf, srv.scene, frame, render.DefaultOptions())
	srv.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
