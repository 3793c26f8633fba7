package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tremauxhttp "github.com/aretw0/tremaux/pkg/adapters/http"
	"github.com/aretw0/tremaux/pkg/adapters/memory"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/aretw0/tremaux/pkg/maze"
	"github.com/aretw0/tremaux/pkg/ports"
	"github.com/aretw0/tremaux/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server *httptest.Server
	store  *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	srv := tremauxhttp.NewServer(routes.NewManager(store))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{server: ts, store: store}
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, f.server.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *fixture) createSession(t *testing.T, mazeID string) tremauxhttp.SessionResponse {
	t.Helper()
	var sess tremauxhttp.SessionResponse
	status := f.do(t, http.MethodPost, "/sessions", tremauxhttp.CreateSessionRequest{MazeID: mazeID}, &sess)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, sess.ID)
	return sess
}

func TestDecide_DeadEnd(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "m1")
	assert.Equal(t, "m1", sess.MazeID)
	assert.Equal(t, domain.ModeExplore, sess.Mode)

	var resp tremauxhttp.DecideResponse
	status := f.do(t, http.MethodPost, "/sessions/"+sess.ID+"/decide", tremauxhttp.DecideRequest{
		Location: domain.Cell{X: 1, Y: 1},
		Heading:  domain.North,
		Exits:    tremauxhttp.Exits{Right: domain.Passage},
	}, &resp)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, domain.ModeExplore, resp.Mode)
	assert.Equal(t, domain.East, resp.Heading)
	require.Len(t, resp.Commands, 1)
	require.NotNil(t, resp.Commands[0].Face)
	assert.Equal(t, domain.Right, *resp.Commands[0].Face)

	var got tremauxhttp.SessionResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/sessions/"+sess.ID, nil, &got))
	assert.Equal(t, domain.ModeBacktrack, got.Mode)
}

func TestDecide_WireFormat(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "wire")

	body := `{"location":"5,5","heading":"EAST","runs":0,"exits":{"ahead":"passage","right":"wall","behind":"been_before","left":"wall"}}`
	resp, err := f.server.Client().Post(f.server.URL+"/sessions/"+sess.ID+"/decide", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"explore","commands":[{"face":"AHEAD"}],"heading":"EAST"}`, string(raw))
}

func TestDecide_Errors(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "err")

	status := f.do(t, http.MethodPost, "/sessions/nope/decide", tremauxhttp.DecideRequest{}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// All walls: the controller refuses to move.
	status = f.do(t, http.MethodPost, "/sessions/"+sess.ID+"/decide", tremauxhttp.DecideRequest{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// A later attempt with nothing recorded for the cell.
	status = f.do(t, http.MethodPost, "/sessions/"+sess.ID+"/decide", tremauxhttp.DecideRequest{
		Runs:  1,
		Exits: tremauxhttp.Exits{Ahead: domain.Passage},
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	resp, err := f.server.Client().Post(f.server.URL+"/sessions/"+sess.ID+"/decide", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSession_RequiresMazeID(t *testing.T) {
	f := newFixture(t)
	status := f.do(t, http.MethodPost, "/sessions", tremauxhttp.CreateSessionRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "gone")

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/sessions/"+sess.ID+"/route", nil, nil))
}

// remoteController drives a simulated robot through the HTTP API.
type remoteController struct {
	t  *testing.T
	f  *fixture
	id string
}

func (c *remoteController) ControlRobot(_ context.Context, robot ports.Robot) (domain.Decision, error) {
	req := tremauxhttp.DecideRequest{
		Location: robot.Location(),
		Heading:  robot.Heading(),
		Runs:     robot.Runs(),
		Exits: tremauxhttp.Exits{
			Ahead:  robot.Look(domain.Ahead),
			Right:  robot.Look(domain.Right),
			Behind: robot.Look(domain.Behind),
			Left:   robot.Look(domain.Left),
		},
	}
	var resp tremauxhttp.DecideResponse
	if status := c.f.do(c.t, http.MethodPost, "/sessions/"+c.id+"/decide", req, &resp); status != http.StatusOK {
		return domain.Decision{}, fmt.Errorf("decide: status %d", status)
	}
	for _, cmd := range resp.Commands {
		switch {
		case cmd.Heading != nil:
			robot.SetHeading(*cmd.Heading)
		case cmd.Face != nil:
			robot.Face(*cmd.Face)
		}
	}
	return domain.Decision{Mode: resp.Mode, Result: resp.Heading}, nil
}

func (c *remoteController) Reset() {
	require.Equal(c.t, http.StatusOK, c.f.do(c.t, http.MethodPost, "/sessions/"+c.id+"/reset", nil, nil))
}

func TestRemoteHost_ExploreThenReplay(t *testing.T) {
	f := newFixture(t)
	g, err := maze.Generate(6, 6, 11, 0)
	require.NoError(t, err)

	ctrl := &remoteController{t: t, f: f, id: f.createSession(t, "remote").ID}
	host := maze.NewHost(g)

	first, err := host.Run(context.Background(), ctrl)
	require.NoError(t, err)
	require.True(t, first.Reached)

	host.NextAttempt(ctrl)

	stored, err := f.store.Load(context.Background(), "remote")
	require.NoError(t, err, "reset persists the route")
	assert.NotEmpty(t, stored.Steps)

	replay, err := host.Run(context.Background(), ctrl)
	require.NoError(t, err)
	assert.True(t, replay.Reached)
	assert.LessOrEqual(t, replay.Moves, first.Distinct)

	// A new session for the same maze starts from the stored route.
	again := f.createSession(t, "remote")
	assert.Equal(t, len(stored.Steps), again.RouteSteps)

	var ids []string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/routes", nil, &ids))
	assert.Equal(t, []string{"remote"}, ids)

	var route domain.Route
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/routes/remote", nil, &route))
	assert.Equal(t, stored.Steps, route.Steps)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/routes/remote", nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/routes/remote", nil, nil))
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "sse")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/sessions/"+sess.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	status := f.do(t, http.MethodPost, "/sessions/"+sess.ID+"/decide", tremauxhttp.DecideRequest{
		Heading: domain.East,
		Exits:   tremauxhttp.Exits{Ahead: domain.Passage, Right: domain.Passage, Behind: domain.BeenBefore},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var events []string
	for lines.Scan() {
		if name, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
			events = append(events, name)
			if name == string(domain.EventDecision) {
				break
			}
		}
	}
	assert.Equal(t, []string{string(domain.EventJunctionRecorded), string(domain.EventDecision)}, events)
}

func TestHealthInfoAndMetrics(t *testing.T) {
	f := newFixture(t)

	var health map[string]string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var info map[string]string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/info", nil, &info))
	assert.Equal(t, "tremaux-http", info["app"])
	assert.NotEmpty(t, info["version"])

	sess := f.createSession(t, "metrics")
	f.do(t, http.MethodPost, "/sessions/"+sess.ID+"/decide", tremauxhttp.DecideRequest{
		Heading: domain.North,
		Exits:   tremauxhttp.Exits{Behind: domain.Passage},
	}, nil)

	resp, err := f.server.Client().Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `tremaux_decisions_total{mode="explore"} 1`)
	assert.Contains(t, body, `tremaux_mode_changes_total{from="explore",to="backtrack"} 1`)
	assert.Contains(t, body, "tremaux_sessions_active 1")
}

func TestRequestInterleavingIsSafe(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t, "busy")
	body := `{"heading":"NORTH","exits":{"ahead":"passage","behind":"been_before"}}`

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.server.Client().Post(f.server.URL+"/sessions/"+sess.ID+"/decide", "application/json", strings.NewReader(body))
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	var route domain.Route
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/sessions/"+sess.ID+"/route", nil, &route))
	assert.Equal(t, domain.North, route.Steps[domain.Cell{}])
}
