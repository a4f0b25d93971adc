package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/dashboard"
	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
	dummydb "github.com/uniquest/uniquest/storage/database/dummy"
)

type testApp struct {
	server *Server
	conf   *core.Config

	usrSvc  *user.Service
	roomSvc *room.Service
	taskSvc *task.Service
	subSvc  *submission.Service
}

type discardStore struct{}

func (discardStore) Save(filename string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return filename, nil
}

type noopMail struct{}

func (noopMail) SendMessages(...*core.EmailMessage) {}

type noopLogger struct{}

func (noopLogger) Enable(bool)                  {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Fatal(string, ...interface{}) {}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	conf := &core.Config{
		AppName:                   "UniQuest",
		Debug:                     false,
		TestMode:                  true,
		SecretKey:                 "t3st-s3cret",
		FrontendBaseURL:           "http://localhost:5173",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	usrSvc := user.NewService(conf, dummydb.NewUserRepository(db), noopMail{})
	roomSvc := room.NewService(dummydb.NewRoomRepository(db))
	taskSvc := task.NewService(dummydb.NewTaskRepository(db), roomSvc)
	subSvc := submission.NewService(dummydb.NewSubmissionRepository(db), discardStore{}, taskSvc, roomSvc)
	dashSvc := dashboard.NewService(usrSvc, roomSvc, taskSvc, subSvc)

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	task.RegisterValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         noopLogger{},
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		RoomSvc:        roomSvc,
		TaskSvc:        taskSvc,
		SubSvc:         subSvc,
		DashSvc:        dashSvc,
		Validate:       validate,
		Translator:     translator,
	})

	return &testApp{
		server:  server,
		conf:    conf,
		usrSvc:  usrSvc,
		roomSvc: roomSvc,
		taskSvc: taskSvc,
		subSvc:  subSvc,
	}
}

func (app *testApp) register(t *testing.T, uname string) user.User {
	t.Helper()
	usr, err := app.usrSvc.Register(user.NewUser{
		Username:        uname,
		Email:           uname + "@test.cd",
		Password:        "Str0ng&pwd",
		PasswordConfirm: "Str0ng&pwd",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return usr
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(app.conf, GetUserClaims(app.conf, usr))
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}

// request performs a JSON request against the test server.
func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buff bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buff).Encode(body); err != nil {
			t.Fatalf("encoding request body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buff)
	req.Header.Set(echoHeaderContentType, "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

// upload performs a multipart file upload against the test server.
func (app *testApp) upload(t *testing.T, path, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buff bytes.Buffer
	w := multipart.NewWriter(&buff)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file failed: %v", err)
	}
	if _, err = fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buff)
	req.Header.Set(echoHeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
	}
}
