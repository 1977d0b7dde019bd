package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"github.com/chenBenjamin97/posture-monitor/pkg/session"
	"github.com/chenBenjamin97/posture-monitor/pkg/video"
	"github.com/gin-gonic/gin"
)

//fakeAnalyzer returns its results in order, then repeats the last one
type fakeAnalyzer struct {
	results []posture.FrameResult
	err     error
	calls   int
}

func (f *fakeAnalyzer) AnalyzeFrame(data []byte) (posture.FrameResult, error) {
	if f.err != nil {
		return nil, f.err
	}

	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return f.results[i], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newFrameRequest(t *testing.T, url string, frameTime string, withImage bool) *http.Request {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if frameTime != "" {
		if err := w.WriteField("time", frameTime); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if withImage {
		part, err := w.CreateFormFile("image", "frame.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		part.Write([]byte("jpeg bytes"))
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getData(t *testing.T, r http.Handler, url string) sessionData {
	rec := serve(r, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 from %s, got %d", url, rec.Code)
	}

	var data sessionData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("could not decode session data: %v", err)
	}
	return data
}

func TestSubmitFrame_RecordsSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{results: []posture.FrameResult{
		posture.Success{NeckAngle: 8, TorsoAngle: 0},
		posture.Success{NeckAngle: 20, TorsoAngle: 12},
	}}
	sessions := session.NewManager()
	r := SetRouter(analyzer, sessions)

	serve(r, httptest.NewRequest(http.MethodPost, "/new-session", nil))

	rec := serve(r, newFrameRequest(t, "/submit-frame", "0", true))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp frameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if resp.Status != "SUCCESS" || resp.NeckAngle == nil || *resp.NeckAngle != 8 || resp.Session != "default" {
		t.Errorf("unexpected response %s", rec.Body.String())
	}

	serve(r, newFrameRequest(t, "/submit-frame", "10", true))

	data := getData(t, r, "/get-data")
	if len(data.Neck.Times) != 2 || data.Neck.Times[1] != 10 || data.Torso.Angles[1] != 12 {
		t.Errorf("unexpected session data %+v", data)
	}
	if data.GoodPostureRate == nil || *data.GoodPostureRate != 0.5 {
		t.Errorf("expected good posture rate 0.5, got %v", data.GoodPostureRate)
	}
	//100 + 100 - 20 - 20
	if data.Aura != 160 {
		t.Errorf("expected aura 160, got %d", data.Aura)
	}
}

func TestSubmitFrame_RejectedFramesAreNotRecorded(t *testing.T) {
	for _, res := range []posture.FrameResult{
		posture.NoPersonDetected{},
		posture.CameraMisaligned{},
		posture.BadVisibility{},
		posture.DegenerateGeometry{},
	} {
		t.Run(res.Status().String(), func(t *testing.T) {
			sessions := session.NewManager()
			r := SetRouter(&fakeAnalyzer{results: []posture.FrameResult{res}}, sessions)
			serve(r, httptest.NewRequest(http.MethodPost, "/new-session?session=desk", nil))

			rec := serve(r, newFrameRequest(t, "/submit-frame?session=desk", "5", true))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var resp frameResponse
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Status != res.Status().String() || resp.NeckAngle != nil || resp.TorsoAngle != nil {
				t.Errorf("unexpected response %s", rec.Body.String())
			}

			data := getData(t, r, "/get-data?session=desk")
			if len(data.Neck.Times) != 0 || data.GoodPostureRate != nil || data.Aura != 0 {
				t.Errorf("expected an untouched session, got %+v", data)
			}
		})
	}
}

func TestSubmitFrame_BadRequests(t *testing.T) {
	analyzer := &fakeAnalyzer{results: []posture.FrameResult{posture.Success{}}}
	r := SetRouter(analyzer, session.NewManager())

	tests := []struct {
		name      string
		frameTime string
		withImage bool
	}{
		{"missing time", "", true},
		{"invalid time", "soon", true},
		{"missing image", "3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(r, newFrameRequest(t, "/submit-frame", tt.frameTime, tt.withImage)); rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer must not run on bad requests, ran %d times", analyzer.calls)
	}
}

func TestSubmitFrame_AnalyzerErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{video.ErrBadImage, http.StatusUnprocessableEntity},
		{errors.New("detector died"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		sessions := session.NewManager()
		r := SetRouter(&fakeAnalyzer{err: tt.err}, sessions)

		if rec := serve(r, newFrameRequest(t, "/submit-frame", "1", true)); rec.Code != tt.want {
			t.Errorf("%v: expected status %d, got %d", tt.err, tt.want, rec.Code)
		}
		if ids := sessions.IDs(); len(ids) != 0 {
			t.Errorf("%v: expected no session created, got %v", tt.err, ids)
		}
	}
}

func TestSubmitFrame_TooLarge(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"image over the frame limit", maxFrameSize + 1},
		{"body over the request limit", maxRequestSize + 1},
	}

	for _, tt := range tests {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		w.WriteField("time", "1")
		part, err := w.CreateFormFile("image", "frame.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		part.Write(bytes.Repeat([]byte{0xff}, tt.size))
		w.Close()

		req := httptest.NewRequest(http.MethodPost, "/submit-frame", body)
		req.Header.Set("Content-Type", w.FormDataContentType())

		analyzer := &fakeAnalyzer{results: []posture.FrameResult{posture.Success{NeckAngle: 10, TorsoAngle: 5}}}
		sessions := session.NewManager()
		r := SetRouter(analyzer, sessions)

		if rec := serve(r, req); rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s: expected status %d, got %d", tt.name, http.StatusRequestEntityTooLarge, rec.Code)
		}
		if analyzer.calls != 0 {
			t.Errorf("%s: analyzer must not run, ran %d times", tt.name, analyzer.calls)
		}
		if ids := sessions.IDs(); len(ids) != 0 {
			t.Errorf("%s: expected no session created, got %v", tt.name, ids)
		}
	}
}

func TestNewSession_ClearsData(t *testing.T) {
	analyzer := &fakeAnalyzer{results: []posture.FrameResult{posture.Success{NeckAngle: 10, TorsoAngle: 5}}}
	r := SetRouter(analyzer, session.NewManager())

	for i := 0; i < 3; i++ {
		serve(r, newFrameRequest(t, "/submit-frame", "1", true))
	}
	if data := getData(t, r, "/get-data"); len(data.Neck.Times) != 3 {
		t.Fatalf("expected 3 frames before reset, got %d", len(data.Neck.Times))
	}

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/new-session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	serve(r, newFrameRequest(t, "/submit-frame", "7", true))
	data := getData(t, r, "/get-data")
	if len(data.Neck.Times) != 1 || data.Neck.Times[0] != 7 {
		t.Errorf("expected only the frame recorded after reset, got %+v", data.Neck)
	}
}

func TestGetData_UnknownSession(t *testing.T) {
	r := SetRouter(&fakeAnalyzer{}, session.NewManager())

	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/get-data?session=nope", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestKeyedSessions(t *testing.T) {
	sessions := session.NewManager()
	r := SetRouter(&fakeAnalyzer{results: []posture.FrameResult{posture.Success{NeckAngle: 10, TorsoAngle: 5}}}, sessions)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var created sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.Session == "" {
		t.Fatalf("expected a session ID, got %s", rec.Body.String())
	}

	serve(r, newFrameRequest(t, "/submit-frame?session="+created.Session, "2", true))
	if data := getData(t, r, "/get-data?session="+created.Session); len(data.Neck.Times) != 1 {
		t.Errorf("expected 1 frame in the new session, got %d", len(data.Neck.Times))
	}

	if rec := serve(r, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+created.Session, nil)); rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if rec := serve(r, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+created.Session, nil)); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := SetRouter(&fakeAnalyzer{}, session.NewManager())

	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}
