package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tourRequestEnvelope struct {
	Message     string `json:"message"`
	TourRequest struct {
		ID         uint   `json:"id"`
		HouseID    uint   `json:"house_id"`
		TenantID   uint   `json:"tenant_id"`
		LandlordID uint   `json:"landlord_id"`
		Status     string `json:"status"`
	} `json:"tour_request"`
}

type tourRequestListEntry struct {
	ID            uint   `json:"id"`
	HouseID       uint   `json:"house_id"`
	PreferredDate string `json:"preferred_date"`
	Status        string `json:"status"`
	House         struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	} `json:"house"`
	Tenant *struct {
		ID        uint   `json:"id"`
		FirstName string `json:"fname"`
	} `json:"tenant"`
	Landlord *struct {
		ID        uint   `json:"id"`
		FirstName string `json:"fname"`
	} `json:"landlord"`
}

func createTourRequest(t *testing.T, r http.Handler, tenantToken string, houseID uint) tourRequestEnvelope {
	t.Helper()

	w := performJSON(r, http.MethodPost, "/api/tour-requests", tenantToken, map[string]interface{}{
		"house_id":       houseID,
		"preferred_date": "2026-09-15",
		"preferred_time": "14:00",
		"message":        "Would love to see the place",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created tourRequestEnvelope
	decodeBody(t, w, &created)
	return created
}

func TestTourRequestLifecycle(t *testing.T) {
	r := setupTest(t)

	landlord, landlordToken := createTestUser(t, "landlord", "landlord@example.com")
	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")
	house := createTestHouse(t, landlord, "Garden flat", "Mikocheni", 650)

	created := createTourRequest(t, r, tenantToken, house.ID)
	assert.Equal(t, "pending", created.TourRequest.Status)
	assert.Equal(t, landlord.ID, created.TourRequest.LandlordID)

	// The landlord sees the pending request with the tenant attached.
	w := performJSON(r, http.MethodGet, "/api/tour-requests/landlord", landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forLandlord []tourRequestListEntry
	decodeBody(t, w, &forLandlord)
	require.Len(t, forLandlord, 1)
	assert.Equal(t, "pending", forLandlord[0].Status)
	assert.Equal(t, "2026-09-15", forLandlord[0].PreferredDate)
	assert.Equal(t, "Garden flat", forLandlord[0].House.Title)
	require.NotNil(t, forLandlord[0].Tenant)
	assert.Equal(t, "Test", forLandlord[0].Tenant.FirstName)
	assert.Nil(t, forLandlord[0].Landlord)

	acceptPath := fmt.Sprintf("/api/tour-requests/%d/accept", created.TourRequest.ID)
	w = performJSON(r, http.MethodPost, acceptPath, landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var decided tourRequestEnvelope
	decodeBody(t, w, &decided)
	assert.Equal(t, "accepted", decided.TourRequest.Status)

	// A decided request cannot be decided again, in either direction.
	w = performJSON(r, http.MethodPost, acceptPath, landlordToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current status: accepted")

	w = performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/reject", created.TourRequest.ID), landlordToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current status: accepted")

	// The tenant's own list reflects the decision.
	w = performJSON(r, http.MethodGet, "/api/tour-requests/tenant", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forTenant []tourRequestListEntry
	decodeBody(t, w, &forTenant)
	require.Len(t, forTenant, 1)
	assert.Equal(t, "accepted", forTenant[0].Status)
	require.NotNil(t, forTenant[0].Landlord)
	assert.Equal(t, landlord.ID, forTenant[0].Landlord.ID)
}

func TestRejectTourRequest(t *testing.T) {
	r := setupTest(t)

	landlord, landlordToken := createTestUser(t, "landlord", "landlord@example.com")
	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")
	house := createTestHouse(t, landlord, "Studio", "Kinondoni", 400)

	created := createTourRequest(t, r, tenantToken, house.ID)

	w := performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/reject", created.TourRequest.ID), landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var decided tourRequestEnvelope
	decodeBody(t, w, &decided)
	assert.Equal(t, "rejected", decided.TourRequest.Status)

	w = performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/accept", created.TourRequest.ID), landlordToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current status: rejected")
}

func TestTourRequestAuthorization(t *testing.T) {
	r := setupTest(t)

	landlord, _ := createTestUser(t, "landlord", "landlord@example.com")
	_, otherLandlordToken := createTestUser(t, "landlord", "other@example.com")
	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")
	house := createTestHouse(t, landlord, "Bungalow", "Masaki", 1200)

	created := createTourRequest(t, r, tenantToken, house.ID)

	// Only the landlord on the request may decide it.
	w := performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/accept", created.TourRequest.ID), otherLandlordToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You do not manage this request")

	// Tenants cannot reach the decision endpoints at all.
	w = performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/accept", created.TourRequest.ID), tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Landlords cannot file tour requests.
	w = performJSON(r, http.MethodPost, "/api/tour-requests", otherLandlordToken, map[string]interface{}{
		"house_id":       house.ID,
		"preferred_date": "2026-09-15",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTourRequestValidation(t *testing.T) {
	r := setupTest(t)

	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")

	w := performJSON(r, http.MethodPost, "/api/tour-requests", tenantToken, map[string]interface{}{
		"house_id":       9999,
		"preferred_date": "2026-09-15",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "House not found")

	landlord, _ := createTestUser(t, "landlord", "landlord@example.com")
	house := createTestHouse(t, landlord, "Loft", "Upanga", 800)

	w = performJSON(r, http.MethodPost, "/api/tour-requests", tenantToken, map[string]interface{}{
		"house_id":       house.ID,
		"preferred_date": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(r, http.MethodPost, "/api/tour-requests", tenantToken, map[string]interface{}{
		"preferred_date": "2026-09-15",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelTourRequest(t *testing.T) {
	r := setupTest(t)

	landlord, landlordToken := createTestUser(t, "landlord", "landlord@example.com")
	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")
	_, otherTenantToken := createTestUser(t, "tenant", "other@example.com")
	house := createTestHouse(t, landlord, "Cottage", "Mbezi", 500)

	created := createTourRequest(t, r, tenantToken, house.ID)
	cancelPath := fmt.Sprintf("/api/tour-requests/%d/cancel", created.TourRequest.ID)

	// Only the requesting tenant may cancel.
	w := performJSON(r, http.MethodPost, cancelPath, otherTenantToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "This is not your request")

	w = performJSON(r, http.MethodPost, cancelPath, tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled tourRequestEnvelope
	decodeBody(t, w, &cancelled)
	assert.Equal(t, "cancelled", cancelled.TourRequest.Status)

	// A cancelled request is out of the landlord's hands.
	w = performJSON(r, http.MethodPost, fmt.Sprintf("/api/tour-requests/%d/accept", created.TourRequest.ID), landlordToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current status: cancelled")

	// And cannot be cancelled twice.
	w = performJSON(r, http.MethodPost, cancelPath, tenantToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Current status: cancelled")
}

func TestListLandlordTourRequestsScoping(t *testing.T) {
	r := setupTest(t)

	landlord, landlordToken := createTestUser(t, "landlord", "landlord@example.com")
	_, emptyLandlordToken := createTestUser(t, "landlord", "empty@example.com")
	_, tenantToken := createTestUser(t, "tenant", "tenant@example.com")

	houseA := createTestHouse(t, landlord, "First", "Kigamboni", 300)
	houseB := createTestHouse(t, landlord, "Second", "Tabata", 350)

	createTourRequest(t, r, tenantToken, houseA.ID)
	createTourRequest(t, r, tenantToken, houseB.ID)

	w := performJSON(r, http.MethodGet, "/api/tour-requests/landlord", landlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forLandlord []tourRequestListEntry
	decodeBody(t, w, &forLandlord)
	assert.Len(t, forLandlord, 2)

	// A landlord with no listings gets an empty list, not someone else's requests.
	w = performJSON(r, http.MethodGet, "/api/tour-requests/landlord", emptyLandlordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestDecideMissingTourRequest(t *testing.T) {
	r := setupTest(t)

	_, landlordToken := createTestUser(t, "landlord", "landlord@example.com")

	w := performJSON(r, http.MethodPost, "/api/tour-requests/9999/accept", landlordToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Tour request not found")
}
