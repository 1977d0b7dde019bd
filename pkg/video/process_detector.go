package video

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/chenBenjamin97/posture-monitor/pkg/posture"
	"gocv.io/x/gocv"
)

//maxResponseLine bounds one line of the detector process output
const maxResponseLine = 1 << 20

type processRequest struct {
	Image string `json:"image"` //base64 PNG
}

type processResponse struct {
	Landmarks posture.Landmarks `json:"landmarks"`
	Error     string            `json:"error,omitempty"`
}

//ProcessDetector talks to a long-running landmark detector process (a MediaPipe pose script for example).
//Each request is one JSON line on the process standard input: {"image": "<base64 png>"}.
//Each answer is one JSON line on its standard output: {"landmarks": {"LEFT_EAR": {"x":..,"y":..,"z":..,"visibility":..}, ...}}
//with null landmarks when no person is found. Lines that are not JSON objects are logged and skipped.
type ProcessDetector struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
	closed  bool
}

//NewProcessDetector starts the detector process, which loads its model once and serves every frame after
func NewProcessDetector(command string, args ...string) (*ProcessDetector, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("NewProcessDetector: Error getting standard input, got '%v'", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("NewProcessDetector: Error getting standard output, got '%v'", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("NewProcessDetector: Error executing '%s', got '%v'", command, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxResponseLine)

	return &ProcessDetector{cmd: cmd, stdin: stdin, scanner: scanner}, nil
}

func (d *ProcessDetector) Detect(frame gocv.Mat) (posture.Landmarks, error) {
	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("ProcessDetector: Could not convert frame, got '%v'", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ProcessDetector: Could not encode frame, got '%v'", err)
	}

	return d.DetectPNG(buf.Bytes())
}

//DetectPNG sends an already encoded PNG frame to the process
func (d *ProcessDetector) DetectPNG(data []byte) (posture.Landmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorClosed
	}

	req, err := json.Marshal(processRequest{Image: base64.StdEncoding.EncodeToString(data)})
	if err != nil {
		return nil, err
	}

	if _, err := d.stdin.Write(append(req, '\n')); err != nil {
		return nil, fmt.Errorf("ProcessDetector: Error writing request, got '%v'", err)
	}

	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if !strings.HasPrefix(line, "{") { //this is a log print, skip it
			if line != "" {
				log.Printf("ProcessDetector: %s", line)
			}
			continue
		}

		resp := processResponse{}
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			return nil, fmt.Errorf("ProcessDetector: Error parsing response, got '%v'", err)
		}

		if resp.Error != "" {
			return nil, fmt.Errorf("ProcessDetector: Detector failed, got '%s'", resp.Error)
		}

		return resp.Landmarks, nil
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("ProcessDetector: Error reading response, got '%v'", err)
	}

	return nil, errors.New("ProcessDetector: Detector process exited")
}

//Close stops the process by closing its standard input and waits for it
func (d *ProcessDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	d.stdin.Close()
	if err := d.cmd.Wait(); err != nil {
		return fmt.Errorf("ProcessDetector: Error waiting detector process, got '%v'", err)
	}

	return nil
}
