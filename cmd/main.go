package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chenBenjamin97/posture-monitor/pkg/api"
	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"github.com/chenBenjamin97/posture-monitor/pkg/session"
	"github.com/chenBenjamin97/posture-monitor/pkg/utils"
	"github.com/chenBenjamin97/posture-monitor/pkg/video"
	"github.com/spf13/viper"
)

var detectorKinds = []string{"net", "process"}

func setDefaults() {
	viper.SetDefault("http.port", "5000")
	viper.SetDefault("detector.kind", "net")
	viper.SetDefault("detector.pool_size", 1)
	viper.SetDefault("detector.min_confidence", 0.1)
	viper.SetDefault("detector.input_width", 368)
	viper.SetDefault("detector.input_height", 368)
	viper.SetDefault("detector.swap_rb", false)
	viper.SetDefault("video.standard_width", utils.StandardInputWidth)

	th := posture.DefaultThresholds()
	viper.SetDefault("alignment.ear", th.EarOffset)
	viper.SetDefault("alignment.shoulder", th.ShoulderOffset)
	viper.SetDefault("alignment.hip", th.HipOffset)
	viper.SetDefault("visibility.ear", th.EarVisibility)
	viper.SetDefault("visibility.shoulder", th.ShoulderVisibility)
	viper.SetDefault("visibility.hip", th.HipVisibility)
	viper.SetDefault("angles.neck_offset", th.NeckAngleOffset)
}

func thresholdsFromConfig() posture.Thresholds {
	return posture.Thresholds{
		EarOffset:          viper.GetFloat64("alignment.ear"),
		ShoulderOffset:     viper.GetFloat64("alignment.shoulder"),
		HipOffset:          viper.GetFloat64("alignment.hip"),
		EarVisibility:      viper.GetFloat64("visibility.ear"),
		ShoulderVisibility: viper.GetFloat64("visibility.shoulder"),
		HipVisibility:      viper.GetFloat64("visibility.hip"),
		NeckAngleOffset:    viper.GetFloat64("angles.neck_offset"),
	}
}

//newDetector loads one detector instance as configured
func newDetector() (video.Detector, error) {
	if viper.GetString("detector.kind") == "process" {
		return video.NewProcessDetector(viper.GetString("detector.command"), viper.GetStringSlice("detector.args")...)
	}

	cfg := video.DefaultNetConfig()
	cfg.Model = viper.GetString("detector.model")
	cfg.Config = viper.GetString("detector.config")
	cfg.InputWidth = viper.GetInt("detector.input_width")
	cfg.InputHeight = viper.GetInt("detector.input_height")
	cfg.SwapRB = viper.GetBool("detector.swap_rb")
	cfg.MinConfidence = viper.GetFloat64("detector.min_confidence")
	return video.NewNetDetector(cfg)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("posture")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Error: Could not read config file, got '%v'", err)
		}
		log.Printf("No config file found, using defaults")
	}

	kind := viper.GetString("detector.kind")
	if !utils.InSlice(kind, detectorKinds) {
		log.Fatalf("Error: Unknown detector kind '%s'", kind)
	}
	if (kind == "net" && viper.GetString("detector.model") == "") || (kind == "process" && viper.GetString("detector.command") == "") {
		log.Fatalf("Error: Missing critical configurations")
	}

	if viper.GetInt("video.standard_width") < 1 {
		log.Fatalf("Error: 'video.standard_width' must be positive, got %d", viper.GetInt("video.standard_width"))
	}

	poolSize := viper.GetInt("detector.pool_size")
	if poolSize < 1 {
		poolSize = 1
	}

	//models are loaded once here and reused for every frame
	detectors := make([]video.Detector, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		d, err := newDetector()
		if err != nil {
			log.Fatalf("Error: Could not create detector, got '%v'", err)
		}
		detectors = append(detectors, d)
	}
	pool := video.NewDetectorPool(detectors...)
	log.Printf("Loaded %d '%s' detector(s)", pool.Size(), kind)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		if err := pool.Close(); err != nil {
			log.Printf("Error closing detectors, got '%v'", err)
		}
		os.Exit(0)
	}()

	pipeline := video.NewPipeline(pool, posture.NewAnalyzer(thresholdsFromConfig()), viper.GetInt("video.standard_width"))

	r := api.SetRouter(pipeline, session.NewManager())
	if err := r.Run(":" + viper.GetString("http.port")); err != nil {
		log.Fatalf("Error: Got '%v'", err)
	}
}
