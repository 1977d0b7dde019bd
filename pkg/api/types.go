package api

import "github.com/chenBenjamin97/posture-monitor/pkg/session"

//angleSeries is one metric of a session, times and angles are index-aligned
type angleSeries struct {
	Times  []int64   `json:"times"`
	Angles []float64 `json:"angles"`
}

type sessionData struct {
	Session         string      `json:"session"`
	Neck            angleSeries `json:"neck"`
	Torso           angleSeries `json:"torso"`
	GoodPostureRate *float64    `json:"good_posture_rate"` //null until a frame was recorded
	Aura            int         `json:"aura"`
}

type frameResponse struct {
	Session    string   `json:"session"`
	Status     string   `json:"status"`
	NeckAngle  *float64 `json:"neck_angle,omitempty"`
	TorsoAngle *float64 `json:"torso_angle,omitempty"`
}

type sessionResponse struct {
	Session string `json:"session"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newSessionData(id string, snap session.Snapshot) sessionData {
	data := sessionData{
		Session: id,
		Neck:    angleSeries{Times: snap.Times, Angles: snap.NeckAngles},
		Torso:   angleSeries{Times: snap.Times, Angles: snap.TorsoAngles},
		Aura:    snap.Aura,
	}

	if snap.HasRate {
		rate := snap.GoodPostureRate
		data.GoodPostureRate = &rate
	}

	return data
}
