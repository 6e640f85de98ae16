package workouts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/workouts"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*mux.Router, *workouts.Service) {
	api := workouts.NewTestApi()
	service := workouts.NewService(api)
	handler := workouts.NewHandler(service, workouts.NewAnalyzer(api), metrics.NewTestManager())

	r := mux.NewRouter()
	r.HandleFunc("/workouts", handler.HandleAdd).Methods("POST")
	r.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", handler.HandleList).Methods("GET")
	r.HandleFunc("/workouts/day/{date}", handler.HandleOnDay).Methods("GET")
	r.HandleFunc("/workouts/years", handler.HandleYears).Methods("GET")
	r.HandleFunc("/workouts/stats/{year}", handler.HandleStats).Methods("GET")
	r.HandleFunc("/workouts/compare/{year1}/{year2}", handler.HandleCompare).Methods("GET")
	r.HandleFunc("/workouts/import/csv", handler.HandleImportCSV).Methods("POST")
	r.HandleFunc("/workouts/import/json", handler.HandleImportJSON).Methods("POST")
	r.HandleFunc("/workouts/export", handler.HandleExport).Methods("GET")

	return r, service
}

func addTestWorkout(t *testing.T, service *workouts.Service, date string, categories ...workouts.Category) workouts.Workout {
	t.Helper()
	if len(categories) == 0 {
		categories = []workouts.Category{workouts.CategoryGym}
	}
	added, err := service.Add(context.Background(), workouts.Workout{
		Date:       date,
		Categories: categories,
	})
	require.NoError(t, err)
	return *added
}

func TestHandler_Add(t *testing.T) {
	r, _ := newTestRouter()

	workoutJson, err := json.Marshal(workouts.Workout{
		Date:       "2024-06-15",
		Categories: []workouts.Category{workouts.CategoryGym},
		GymSubs:    []workouts.GymSub{workouts.GymSubChest},
		Notes:      "chest day",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/workouts", bytes.NewReader(workoutJson))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var added workouts.Workout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "chest day", added.Notes)
}

func TestHandler_Add_BadRequests(t *testing.T) {
	r, _ := newTestRouter()

	// wrong content type
	req := httptest.NewRequest("POST", "/workouts", strings.NewReader("{}"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// invalid workout
	workoutJson := `{"date": "2024-06-15", "categories": []}`
	req = httptest.NewRequest("POST", "/workouts", strings.NewReader(workoutJson))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Delete(t *testing.T) {
	r, service := newTestRouter()
	added := addTestWorkout(t, service, "2024-06-15")

	req := httptest.NewRequest("DELETE", "/workouts/"+added.ID, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var deleteResp workouts.DeleteWorkoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleteResp))
	assert.Equal(t, added.ID, deleteResp.DeletedID)

	// second delete of the same id
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/workouts/"+added.ID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_List(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2024-06-15")
	addTestWorkout(t, service, "2024-06-17")
	addTestWorkout(t, service, "2024-06-16")

	req := httptest.NewRequest("GET", "/workouts/list/page/1/size/2", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listResp workouts.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	assert.Equal(t, 3, listResp.Total)
	require.Len(t, listResp.Workouts, 2)
	assert.Equal(t, "2024-06-17", listResp.Workouts[0].Date)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts/list/page/0/size/2", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts/list/page/1/size/nan", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_OnDay(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2024-06-15")
	addTestWorkout(t, service, "2024-06-15", workouts.CategoryCardio)
	addTestWorkout(t, service, "2024-06-16")

	req := httptest.NewRequest("GET", "/workouts/day/2024-06-15", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var dayWorkouts []workouts.Workout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dayWorkouts))
	assert.Len(t, dayWorkouts, 2)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts/day/not-a-date", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Years(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2022-03-01")
	addTestWorkout(t, service, "2024-06-15")

	req := httptest.NewRequest("GET", "/workouts/years", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var years []int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &years))
	assert.Equal(t, []int{2024, 2022}, years)
}

func TestHandler_Stats(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2024-06-15")
	addTestWorkout(t, service, "2024-06-17")
	addTestWorkout(t, service, "2023-01-01")

	req := httptest.NewRequest("GET", "/workouts/stats/2024", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard workouts.DashboardReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 2024, dashboard.Year)
	assert.Equal(t, 2, dashboard.Total)
	assert.Equal(t, 2, dashboard.Stats.Categories[workouts.CategoryGym])

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts/stats/twentytwentyfour", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Compare(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2022-03-01")
	addTestWorkout(t, service, "2023-03-01")
	addTestWorkout(t, service, "2023-04-01")

	req := httptest.NewRequest("GET", "/workouts/compare/2022/2023", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var report workouts.ComparisonReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 2022, report.YearA)
	assert.Equal(t, 2023, report.YearB)
	require.NotEmpty(t, report.Tables)
	assert.Equal(t, 1, report.Tables[0].Rows[0].YearA)
	assert.Equal(t, 2, report.Tables[0].Rows[0].YearB)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts/compare/2022/nan", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_ImportCSV(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2024-06-15")

	csvText := "date,categories\n2024-06-16,Cardio\nnot-a-date,Gym"
	req := httptest.NewRequest("POST", "/workouts/import/csv", strings.NewReader(csvText))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result workouts.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Errors)

	_, total, err := service.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestHandler_ImportJSON(t *testing.T) {
	r, _ := newTestRouter()

	payload := `[{"date": "2024-06-15", "categories": ["Gym"]}]`
	req := httptest.NewRequest("POST", "/workouts/import/json", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result workouts.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Imported)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("POST", "/workouts/import/json", strings.NewReader(`{"not": "array"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Export(t *testing.T) {
	r, service := newTestRouter()
	addTestWorkout(t, service, "2024-06-15")
	addTestWorkout(t, service, "2024-06-16")

	req := httptest.NewRequest("GET", "/workouts/export", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"), "attachment; filename=fitlog-export-"))

	var exported []workouts.Workout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exported))
	assert.Len(t, exported, 2)
}

func TestHandler_Export_FileName(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest("GET", "/workouts/export", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	disposition := rr.Header().Get("Content-Disposition")
	assert.True(t, strings.HasSuffix(disposition, ".json"), fmt.Sprintf("disposition: %s", disposition))
}
