package bookings

import (
	"net/http"
	"testing"
	"time"

	"roombook/pkg/model"
	"roombook/test/integration/common"
)

func createRoom(t *testing.T, client *common.Client) model.Room {
	t.Helper()

	resp := client.POST(t, "/api/v1/rooms", common.ValidRoom())
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var room model.Room
	if err := resp.DecodeData(&room); err != nil {
		t.Fatalf("failed to unmarshal room: %v", err)
	}
	return room
}

func TestCreate_ValidBooking(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	booking := common.NewBookingBuilder(room.ID).Build()

	resp := client.POST(t, "/api/v1/bookings", booking)

	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if created.ID == "" {
		t.Error("expected ID to be set")
	}
	if created.RoomID != room.ID {
		t.Errorf("expected room_id %q, got %q", room.ID, created.RoomID)
	}

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 1 {
		t.Errorf("expected 1 document in DB, got %d", count)
	}
}

func TestCreate_OverlappingBookingRejected(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	first := common.NewBookingBuilder(room.ID).
		WithTimes(start, start.Add(time.Hour)).
		Build()
	resp := client.POST(t, "/api/v1/bookings", first)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	second := common.NewBookingBuilder(room.ID).
		WithUsername("budi").
		WithBookedBy("Budi Santoso").
		WithTimes(start.Add(30*time.Minute), start.Add(90*time.Minute)).
		Build()
	resp = client.POST(t, "/api/v1/bookings", second)

	common.AssertStatusCode(t, resp, http.StatusConflict)
	common.AssertContains(t, resp, created.ID)

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 1 {
		t.Errorf("expected 1 document in DB, got %d", count)
	}
}

func TestCreate_TouchingBookingsAllowed(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	first := common.NewBookingBuilder(room.ID).
		WithTimes(start, start.Add(time.Hour)).
		Build()
	resp := client.POST(t, "/api/v1/bookings", first)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	second := common.NewBookingBuilder(room.ID).
		WithTimes(start.Add(time.Hour), start.Add(2*time.Hour)).
		Build()
	resp = client.POST(t, "/api/v1/bookings", second)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 2 {
		t.Errorf("expected 2 documents in DB, got %d", count)
	}
}

func TestCreate_EndBeforeStartRejected(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	booking := common.NewBookingBuilder(room.ID).
		WithTimes(start, start.Add(-time.Hour)).
		Build()
	resp := client.POST(t, "/api/v1/bookings", booking)

	common.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 0 {
		t.Errorf("expected 0 documents in DB, got %d", count)
	}
}

func TestCancel_OwnerCanCancel(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	booking := common.NewBookingBuilder(room.ID).WithUsername("rina").Build()
	resp := client.POST(t, "/api/v1/bookings", booking)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	resp = client.DELETEWithHeaders(t, "/api/v1/bookings/id/"+created.ID,
		common.RequesterHeaders("rina", "user"))
	common.AssertStatusCode(t, resp, http.StatusNoContent)

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 0 {
		t.Errorf("expected 0 documents in DB, got %d", count)
	}
}

func TestCancel_OtherUserForbidden(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	booking := common.NewBookingBuilder(room.ID).WithUsername("rina").Build()
	resp := client.POST(t, "/api/v1/bookings", booking)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	resp = client.DELETEWithHeaders(t, "/api/v1/bookings/id/"+created.ID,
		common.RequesterHeaders("budi", "user"))
	common.AssertStatusCode(t, resp, http.StatusForbidden)

	count := mongo.CountDocuments(t, common.BookingsCollection)
	if count != 1 {
		t.Errorf("expected 1 document in DB, got %d", count)
	}
}

func TestCancel_AdminCanCancelAny(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	booking := common.NewBookingBuilder(room.ID).WithUsername("rina").Build()
	resp := client.POST(t, "/api/v1/bookings", booking)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	resp = client.DELETEWithHeaders(t, "/api/v1/bookings/id/"+created.ID,
		common.RequesterHeaders("admin", "admin"))
	common.AssertStatusCode(t, resp, http.StatusNoContent)
}

func TestGetMine_ScopedToRequester(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := createRoom(t, client)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	mine := common.NewBookingBuilder(room.ID).
		WithTimes(start, start.Add(time.Hour)).
		Build()
	resp := client.POST(t, "/api/v1/bookings", mine)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	other := common.NewBookingBuilder(room.ID).
		WithUsername("budi").
		WithBookedBy("Budi Santoso").
		WithTimes(start.Add(2*time.Hour), start.Add(3*time.Hour)).
		Build()
	resp = client.POST(t, "/api/v1/bookings", other)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	resp = client.GETWithHeaders(t, "/api/v1/bookings/my", common.RequesterHeaders("rina", "user"))
	common.AssertStatusCode(t, resp, http.StatusOK)

	var bookings []model.Booking
	if err := resp.DecodeData(&bookings); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected only the requester's booking, got %d", len(bookings))
	}
	if bookings[0].Username != "rina" {
		t.Errorf("expected username rina, got %q", bookings[0].Username)
	}
}
