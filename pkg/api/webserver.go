package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"github.com/chenBenjamin97/posture-monitor/pkg/session"
	"github.com/chenBenjamin97/posture-monitor/pkg/utils"
	"github.com/chenBenjamin97/posture-monitor/pkg/video"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const (
	//maxFrameSize limits the size of a submitted frame
	maxFrameSize = 8 << 20
	//maxRequestSize leaves room for the other form fields and multipart framing
	maxRequestSize = maxFrameSize + 1<<20
)

//FrameAnalyzer turns an encoded camera frame into a posture.FrameResult (implemented by video.Pipeline)
type FrameAnalyzer interface {
	AnalyzeFrame(data []byte) (posture.FrameResult, error)
}

//SetRouter builds the HTTP routes of the posture monitor.
//Every route takes an optional 'session' query parameter, the default session is used without it.
func SetRouter(analyzer FrameAnalyzer, sessions *session.Manager) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxFrameSize

	corsConfig := cors.DefaultConfig()
	if origins := viper.GetStringSlice("cors.origins"); len(origins) > 0 && !utils.InSlice("*", origins) {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/new-session", func(ctx *gin.Context) {
		id := sessionID(ctx)
		sessions.Reset(id)
		log.Printf("api/new-session: Session '%s' reset", id)
		ctx.JSON(http.StatusOK, sessionResponse{Session: id})
	})

	r.POST("/submit-frame", func(ctx *gin.Context) {
		submitFrame(ctx, analyzer, sessions)
	})

	r.GET("/get-data", func(ctx *gin.Context) {
		id := sessionID(ctx)
		s, err := sessions.Get(id)
		if err != nil {
			ctx.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, newSessionData(id, s.Snapshot()))
	})

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/sessions", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, sessions.IDs())
	})

	apiRoutes.POST("/sessions", func(ctx *gin.Context) {
		id, _ := sessions.Create()
		ctx.JSON(http.StatusCreated, sessionResponse{Session: id})
	})

	apiRoutes.DELETE("/sessions/:id", func(ctx *gin.Context) {
		if err := sessions.Delete(ctx.Param("id")); err != nil {
			ctx.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		ctx.Status(http.StatusNoContent)
	})

	return r
}

func sessionID(ctx *gin.Context) string {
	return ctx.DefaultQuery("session", utils.DefaultSessionID)
}

//submitFrame analyzes the 'image' form file and records its angles at the 'time' form value when the frame is valid
func submitFrame(ctx *gin.Context, analyzer FrameAnalyzer, sessions *session.Manager) {
	id := sessionID(ctx)

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxRequestSize)
	if err := ctx.Request.ParseMultipartForm(maxFrameSize); err != nil && isBodyTooLarge(err) {
		ctx.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return
	}

	frameTime, err := strconv.ParseInt(ctx.PostForm("time"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "missing or invalid 'time' field"})
		return
	}

	file, fHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "missing 'image' file"})
		return
	}
	defer file.Close()

	if fHeader.Size > maxFrameSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "image too large"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("api/submit-frame: Could not read request's body, got '%v'", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	res, err := analyzer.AnalyzeFrame(data)
	if err != nil {
		if errors.Is(err, video.ErrBadImage) {
			ctx.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}

		log.Printf("api/submit-frame: Error analyzing frame, got '%v'", err)
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "frame analysis failed"})
		return
	}

	resp := frameResponse{Session: id, Status: res.Status().String()}

	success, ok := res.(posture.Success)
	if !ok {
		ctx.JSON(http.StatusOK, resp)
		return
	}

	if err := sessions.GetOrCreate(id).Record(frameTime, success.NeckAngle, success.TorsoAngle); err != nil {
		log.Printf("api/submit-frame: Could not record frame, got '%v'", err)
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp.NeckAngle, resp.TorsoAngle = &success.NeckAngle, &success.TorsoAngle
	ctx.JSON(http.StatusCreated, resp)
}

//isBodyTooLarge reports whether err comes from http.MaxBytesReader hitting its limit
func isBodyTooLarge(err error) bool {
	return strings.Contains(err.Error(), "http: request body too large")
}
