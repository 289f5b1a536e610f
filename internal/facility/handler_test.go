package facility_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/facility"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFacility(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Facility Handler Suite")
}

type stubService struct {
	facility.ServiceAPI
	rooms     map[int64]*facility.Room
	deleteErr error
}

func (s *stubService) GetRoom(_ context.Context, id int64) (*facility.Room, error) {
	if room, ok := s.rooms[id]; ok {
		return room, nil
	}
	return nil, internal.ErrRoomNotFound
}

func (s *stubService) CreateRoom(_ context.Context, dto facility.CreateRoomDTO) (*facility.Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	room := &facility.Room{ID: int64(len(s.rooms) + 1), FloorID: dto.FloorID, Name: dto.Name}
	s.rooms[room.ID] = room
	return room, nil
}

func (s *stubService) DeleteRoom(context.Context, int64) error {
	return s.deleteErr
}

var _ = Describe("Facility Handler", func() {
	var (
		stub   *stubService
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubService{rooms: map[int64]*facility.Room{7: {ID: 7, FloorID: 1, Name: "Lab"}}}
		h := facility.NewHandler(stub)
		h.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

		router = chi.NewRouter()
		router.Get("/rooms/{id}", h.GetRoom)
		router.Post("/rooms", h.CreateRoom)
		router.Delete("/rooms/{id}", h.DeleteRoom)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return a room", func() {
		w := do(http.MethodGet, "/rooms/7", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"Lab"`))
	})

	It("should map missing rooms to 404", func() {
		w := do(http.MethodGet, "/rooms/8", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("ROOM_NOT_FOUND"))
	})

	It("should reject malformed ids", func() {
		Expect(do(http.MethodGet, "/rooms/abc", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 400 on validation errors", func() {
		w := do(http.MethodPost, "/rooms", `{"floor_id":1,"name":""}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should create rooms", func() {
		w := do(http.MethodPost, "/rooms", `{"floor_id":1,"name":"Studio"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("should answer 409 when the room still has dependents", func() {
		stub.deleteErr = internal.ErrHasChildren
		Expect(do(http.MethodDelete, "/rooms/7", "").Code).To(Equal(http.StatusConflict))
	})

	It("should answer 204 on delete", func() {
		Expect(do(http.MethodDelete, "/rooms/7", "").Code).To(Equal(http.StatusNoContent))
	})
})
