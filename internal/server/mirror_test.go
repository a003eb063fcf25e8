package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/markoshka/markoshka/internal/engine"
	"github.com/markoshka/markoshka/internal/render"
)

func startTestMirror(t *testing.T) (*Mirror, *engine.IntentQueue, string) {
	t.Helper()

	intents := engine.NewIntentQueue()
	mirror := New(Config{Host: "127.0.0.1", Port: 0}, intents)
	if err := mirror.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { mirror.Close() })

	url := fmt.Sprintf("ws://%s%s", mirror.listener.Addr().String(), wsPath)
	return mirror, intents, url
}

func dialViewer(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("viewer dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frameMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg frameMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("viewer read failed: %v", err)
	}
	return msg
}

func TestMirrorBroadcastsFrames(t *testing.T) {
	mirror, _, url := startTestMirror(t)
	conn := dialViewer(t, url)

	frame := render.StaticFrame("Ты справишься!")

	// The broadcast races the upgrade handshake; retry until the viewer is
	// registered.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := mirror.Write(frame); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		mirror.mu.Lock()
		registered := len(mirror.clients) > 0
		mirror.mu.Unlock()
		if registered {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := mirror.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	msg := readFrame(t, conn)
	if msg.Lines[0] != frame[0] || msg.Lines[1] != frame[1] {
		t.Errorf("viewer got %q, want %q", msg.Lines, frame)
	}
}

func TestMirrorReplaysLastFrameToNewViewer(t *testing.T) {
	mirror, _, url := startTestMirror(t)

	frame := render.StaticFrame("Кофе уже в пути")
	if err := mirror.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Connect after the fact: the last frame arrives without waiting for
	// the next refresh.
	conn := dialViewer(t, url)
	msg := readFrame(t, conn)
	if msg.Lines[0] != frame[0] {
		t.Errorf("replayed frame row 0 = %q, want %q", msg.Lines[0], frame[0])
	}
}

func TestMirrorReplayDoesNotRaceBroadcast(t *testing.T) {
	// A viewer connecting mid-broadcast gets the replay write on the
	// handler goroutine while Write is broadcasting on another. Only one
	// goroutine may write to a websocket connection at a time, so the
	// replay must finish before the connection joins the broadcast set.
	// The race detector fails this test if the two writes ever overlap.
	mirror, _, url := startTestMirror(t)

	frame := render.StaticFrame("Ты справишься!")
	if err := mirror.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			_ = mirror.Write(frame)
		}
	}()
	t.Cleanup(func() {
		close(stop)
		wg.Wait()
	})

	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("viewer %d dial failed: %v", i, err)
		}
		msg := readFrame(t, conn)
		if msg.Lines[0] != frame[0] {
			t.Errorf("viewer %d replay row 0 = %q, want %q", i, msg.Lines[0], frame[0])
		}
		conn.Close()
	}
}

func TestMirrorPressesBecomeIntents(t *testing.T) {
	_, intents, url := startTestMirror(t)
	conn := dialViewer(t, url)

	presses := []struct {
		press string
		want  engine.Intent
	}{
		{"short", engine.IntentToggleMode},
		{"long", engine.IntentCycleCategory},
		{"weather", engine.IntentToggleWeather},
	}

	for _, p := range presses {
		if err := conn.WriteJSON(pressMessage{Press: p.press}); err != nil {
			t.Fatalf("press %q write failed: %v", p.press, err)
		}
	}

	for _, p := range presses {
		intent, ok := pollWithin(intents, 2*time.Second)
		if !ok {
			t.Fatalf("press %q never reached the queue", p.press)
		}
		if intent != p.want {
			t.Errorf("press %q queued %v, want %v", p.press, intent, p.want)
		}
	}
}

func TestMirrorIgnoresUnknownPress(t *testing.T) {
	_, intents, url := startTestMirror(t)
	conn := dialViewer(t, url)

	if err := conn.WriteJSON(pressMessage{Press: "triple-click"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(pressMessage{Press: "short"}); err != nil {
		t.Fatal(err)
	}

	// Only the valid press lands; the unknown one is dropped, not mapped.
	intent, ok := pollWithin(intents, 2*time.Second)
	if !ok {
		t.Fatal("valid press never reached the queue")
	}
	if intent != engine.IntentToggleMode {
		t.Errorf("queued %v, want toggle_mode", intent)
	}
	if extra, ok := pollWithin(intents, 100*time.Millisecond); ok {
		t.Errorf("unknown press produced intent %v", extra)
	}
}

func pollWithin(q *engine.IntentQueue, d time.Duration) (engine.Intent, bool) {
	deadline := time.Now().Add(d)
	for {
		if intent, ok := q.Poll(); ok {
			return intent, true
		}
		if time.Now().After(deadline) {
			return 0, false
		}
		time.Sleep(5 * time.Millisecond)
	}
}
