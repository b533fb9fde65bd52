package broadcast

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/shaneanderson428-svg/NFL-player-stock-simulation-app/internal/domain"
)

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(log)
}

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	// Give the register message time to land before publishing.
	time.Sleep(50 * time.Millisecond)

	hub.Publish([]*domain.PricePoint{{
		PlayerID: "p1", Season: 2025, Week: 1, Price: 104.5,
		Position: domain.PositionQB,
	}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var points []domain.PricePoint
	if err := json.Unmarshal(msg, &points); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(points) != 1 || points[0].PlayerID != "p1" || points[0].Price != 104.5 {
		t.Errorf("unexpected payload: %+v", points)
	}
}

func TestHubPublishEmptyIsNoop(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	defer hub.Stop()

	// Must not panic or queue anything.
	hub.Publish(nil)
	hub.Publish([]*domain.PricePoint{})
}
