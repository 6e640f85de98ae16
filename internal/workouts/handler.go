package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  *Service
	analyzer *Analyzer
	metrics  *metrics.Manager
}

func NewHandler(service *Service, analyzer *Analyzer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:  service,
		analyzer: analyzer,
		metrics:  metricsManager,
	}
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

type DeleteWorkoutResponse struct {
	DeletedID string `json:"deletedId"`
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("add workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(ctx, workout)
	if err != nil {
		if errors.Is(err, ErrInvalidWorkout) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add workout: %s", err)
		http.Error(w, "add workout failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkouts.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added workout: %s", err)
		http.Error(w, "add workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %s: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteWorkoutResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deleteRespJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Errorf("handle list workouts, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Errorf("handle list workouts, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	workoutsPage, total, err := handler.service.List(ctx, page, size)
	if err != nil {
		log.Errorf("list workouts: %s", err)
		http.Error(w, "list workouts failed", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Workouts: workoutsPage,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts page: %s", err)
		http.Error(w, "list workouts failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listRespJson, http.StatusOK)
}

func (handler *Handler) HandleOnDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.onday")
	defer span.End()

	vars := mux.Vars(r)
	date := vars["date"]

	dayWorkouts, err := handler.service.OnDay(ctx, date)
	if err != nil {
		if errors.Is(err, ErrInvalidWorkout) {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		log.Errorf("get workouts on %s: %s", date, err)
		http.Error(w, "get workouts failed", http.StatusInternalServerError)
		return
	}

	dayWorkoutsJson, err := json.Marshal(dayWorkouts)
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "get workouts failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dayWorkoutsJson, http.StatusOK)
}

func (handler *Handler) HandleYears(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.years")
	defer span.End()

	years, err := handler.service.Years(ctx)
	if err != nil {
		log.Errorf("get workout years: %s", err)
		http.Error(w, "get years failed", http.StatusInternalServerError)
		return
	}

	yearsJson, err := json.Marshal(years)
	if err != nil {
		log.Errorf("failed to marshal years: %s", err)
		http.Error(w, "get years failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, yearsJson, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "error, year NaN", http.StatusBadRequest)
		return
	}

	dashboard, err := handler.analyzer.Dashboard(ctx, year)
	if err != nil {
		log.Errorf("get dashboard for %d: %s", year, err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}

	dashboardJson, err := json.Marshal(dashboard)
	if err != nil {
		log.Errorf("failed to marshal dashboard: %s", err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dashboardJson, http.StatusOK)
}

func (handler *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.compare")
	defer span.End()

	vars := mux.Vars(r)
	yearA, err := strconv.Atoi(vars["year1"])
	if err != nil {
		http.Error(w, "error, year1 NaN", http.StatusBadRequest)
		return
	}
	yearB, err := strconv.Atoi(vars["year2"])
	if err != nil {
		http.Error(w, "error, year2 NaN", http.StatusBadRequest)
		return
	}

	comparison, err := handler.analyzer.CompareYearToDate(ctx, yearA, yearB)
	if err != nil {
		log.Errorf("compare years %d and %d: %s", yearA, yearB, err)
		http.Error(w, "compare years failed", http.StatusInternalServerError)
		return
	}

	comparisonJson, err := json.Marshal(comparison)
	if err != nil {
		log.Errorf("failed to marshal comparison: %s", err)
		http.Error(w, "compare years failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, comparisonJson, http.StatusOK)
}

func (handler *Handler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.import.csv")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("import csv, read body: %s", err)
		http.Error(w, "import failed", http.StatusBadRequest)
		return
	}

	result, err := handler.service.ImportCSV(ctx, string(body))
	if err != nil {
		log.Errorf("import csv: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	handler.writeImportResult(w, result)
}

func (handler *Handler) HandleImportJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.import.json")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("import json, read body: %s", err)
		http.Error(w, "import failed", http.StatusBadRequest)
		return
	}

	result, err := handler.service.ImportJSON(ctx, body)
	if err != nil {
		if errors.Is(err, ErrInvalidImportPayload) {
			http.Error(w, "invalid payload, array of workouts expected", http.StatusBadRequest)
			return
		}
		log.Errorf("import json: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	handler.writeImportResult(w, result)
}

func (handler *Handler) writeImportResult(w http.ResponseWriter, result *ImportResult) {
	handler.metrics.CounterImportedWorkouts.Add(float64(result.Imported))

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal import result: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	exportJson, err := handler.service.Export(ctx)
	if err != nil {
		log.Errorf("export workouts: %s", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("fitlog-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exportJson, http.StatusOK)
}
