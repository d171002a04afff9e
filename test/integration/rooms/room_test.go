package rooms

import (
	"net/http"
	"testing"

	"roombook/pkg/model"
	"roombook/test/integration/common"
)

func TestCreate_ValidRoom(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := common.ValidRoom()

	resp := client.POST(t, "/api/v1/rooms", room)

	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Room
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if created.ID == "" {
		t.Error("expected ID to be set")
	}
	if created.Name != room.Name {
		t.Errorf("expected name %q, got %q", room.Name, created.Name)
	}

	count := mongo.CountDocuments(t, common.RoomsCollection)
	if count != 1 {
		t.Errorf("expected 1 document in DB, got %d", count)
	}
}

func TestCreate_NormalizesWhitespace(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := common.NewRoomBuilder().WithName("  Ruang   Melati  ").Build()

	resp := client.POST(t, "/api/v1/rooms", room)

	common.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Room
	if err := resp.DecodeData(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if created.Name != "Ruang Melati" {
		t.Errorf("expected normalized name, got %q", created.Name)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	room := common.ValidRoom()

	resp := client.POST(t, "/api/v1/rooms", room)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	resp = client.POST(t, "/api/v1/rooms", room)
	common.AssertStatusCode(t, resp, http.StatusConflict)

	count := mongo.CountDocuments(t, common.RoomsCollection)
	if count != 1 {
		t.Errorf("expected 1 document in DB, got %d", count)
	}
}

func TestCreate_EmptyRoom(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.POST(t, "/api/v1/rooms", common.EmptyRoom())

	common.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)

	count := mongo.CountDocuments(t, common.RoomsCollection)
	if count != 0 {
		t.Errorf("expected 0 documents in DB, got %d", count)
	}
}

func TestDelete_CascadesBookings(t *testing.T) {
	env := common.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.POST(t, "/api/v1/rooms", common.ValidRoom())
	common.AssertStatusCode(t, resp, http.StatusCreated)

	var room model.Room
	if err := resp.DecodeData(&room); err != nil {
		t.Fatalf("failed to unmarshal room: %v", err)
	}

	booking := common.NewBookingBuilder(room.ID).Build()
	resp = client.POST(t, "/api/v1/bookings", booking)
	common.AssertStatusCode(t, resp, http.StatusCreated)

	resp = client.DELETE(t, "/api/v1/rooms/id/"+room.ID)
	common.AssertStatusCode(t, resp, http.StatusNoContent)

	if count := mongo.CountDocuments(t, common.RoomsCollection); count != 0 {
		t.Errorf("expected 0 rooms, got %d", count)
	}
	if count := mongo.CountDocuments(t, common.BookingsCollection); count != 0 {
		t.Errorf("expected bookings to be cascaded, got %d", count)
	}
}
