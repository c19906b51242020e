package trips

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trailmeals/server/internal/userctx"
)

func newTestMux() (*http.ServeMux, *Service) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/trips", h.HandleCreateTrip)
	mux.HandleFunc("GET /v1/trips", h.HandleListTrips)
	mux.HandleFunc("GET /v1/trips/{id}", h.HandleGetTrip)
	mux.HandleFunc("PATCH /v1/trips/{id}", h.HandleUpdateTrip)
	mux.HandleFunc("DELETE /v1/trips/{id}", h.HandleDeleteTrip)
	mux.HandleFunc("POST /v1/trips/{id}/duplicate", h.HandleDuplicateTrip)
	mux.HandleFunc("GET /v1/trips/{id}/entries", h.HandleListEntries)
	mux.HandleFunc("POST /v1/trips/{id}/entries", h.HandleCreateEntry)
	mux.HandleFunc("PATCH /v1/entries/{id}", h.HandleUpdateEntry)
	mux.HandleFunc("DELETE /v1/entries/{id}", h.HandleDeleteEntry)
	return mux, svc
}

func doRequest(mux *http.ServeMux, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req = req.WithContext(userctx.WithUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleCreateTrip(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "POST", "/v1/trips", CreateTripRequest{
		Name:      "Sierra Loop",
		Days:      3,
		StartDate: "2026-06-01",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var trip TripDTO
	json.NewDecoder(w.Body).Decode(&trip)

	if trip.Name != "Sierra Loop" {
		t.Errorf("expected name Sierra Loop, got %s", trip.Name)
	}
	if trip.Days != 3 {
		t.Errorf("expected 3 days, got %d", trip.Days)
	}
}

func TestHandleCreateTripInvalid(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "POST", "/v1/trips", CreateTripRequest{Name: "", Days: 3})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleEntriesFlow(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "POST", "/v1/trips", CreateTripRequest{Name: "Loop", Days: 2, StartDate: "2026-06-01"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var trip TripDTO
	json.NewDecoder(w.Body).Decode(&trip)

	w = doRequest(mux, "POST", "/v1/trips/"+trip.ID.String()+"/entries", CreateEntryRequest{
		DayIndex: 1,
		MealSlot: "breakfast",
		RecipeID: "101",
		Servings: 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var entry EntryDTO
	json.NewDecoder(w.Body).Decode(&entry)

	if entry.RecipeTitle != "Oatmeal" {
		t.Errorf("expected title Oatmeal, got %s", entry.RecipeTitle)
	}
	if entry.DayLabel != "Day 1" {
		t.Errorf("expected day label Day 1, got %s", entry.DayLabel)
	}

	w = doRequest(mux, "GET", "/v1/trips/"+trip.ID.String()+"/entries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var list struct {
		Entries []EntryDTO `json:"entries"`
	}
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(list.Entries))
	}

	w = doRequest(mux, "DELETE", "/v1/entries/"+entry.ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}

	// Second delete is a no-op.
	w = doRequest(mux, "DELETE", "/v1/entries/"+entry.ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204 on repeat delete, got %d", w.Code)
	}
}

func TestHandleListEntriesByDay(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "POST", "/v1/trips", CreateTripRequest{Name: "Loop", Days: 2, StartDate: "2026-06-01"})
	var trip TripDTO
	json.NewDecoder(w.Body).Decode(&trip)

	doRequest(mux, "POST", "/v1/trips/"+trip.ID.String()+"/entries", CreateEntryRequest{DayIndex: 1, MealSlot: "lunch", RecipeID: "101"})
	doRequest(mux, "POST", "/v1/trips/"+trip.ID.String()+"/entries", CreateEntryRequest{DayIndex: 2, MealSlot: "snacks", RecipeID: "202"})

	w = doRequest(mux, "GET", "/v1/trips/"+trip.ID.String()+"/entries?day=2", nil)
	var list struct {
		Entries []EntryDTO `json:"entries"`
	}
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Entries) != 1 {
		t.Fatalf("expected 1 entry for day 2, got %d", len(list.Entries))
	}
	if list.Entries[0].MealSlot != "snacks" {
		t.Errorf("expected snacks entry, got %s", list.Entries[0].MealSlot)
	}

	w = doRequest(mux, "GET", "/v1/trips/"+trip.ID.String()+"/entries?consolidated_snacks=1", nil)
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Entries) != 1 {
		t.Errorf("expected 1 consolidated snack, got %d", len(list.Entries))
	}
}

func TestHandleGetTripNotFound(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "GET", "/v1/trips/a2c9a7e0-44a4-4c2f-9023-9f2d3b2f51e7", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleDuplicateTrip(t *testing.T) {
	mux, _ := newTestMux()

	w := doRequest(mux, "POST", "/v1/trips", CreateTripRequest{Name: "Loop", Days: 2, StartDate: "2026-06-01"})
	var trip TripDTO
	json.NewDecoder(w.Body).Decode(&trip)

	doRequest(mux, "POST", "/v1/trips/"+trip.ID.String()+"/entries", CreateEntryRequest{DayIndex: 1, MealSlot: "dinner", RecipeID: "202"})

	w = doRequest(mux, "POST", "/v1/trips/"+trip.ID.String()+"/duplicate", DuplicateTripRequest{Name: "Loop copy"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp struct {
		Trip    TripDTO    `json:"trip"`
		Entries []EntryDTO `json:"entries"`
	}
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Trip.Name != "Loop copy" {
		t.Errorf("expected name Loop copy, got %s", resp.Trip.Name)
	}
	if len(resp.Entries) != 1 {
		t.Errorf("expected 1 copied entry, got %d", len(resp.Entries))
	}
}
