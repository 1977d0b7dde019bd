package session

import "github.com/chenBenjamin97/posture-monitor/pkg/utils"

//GoodPostureRate returns the fraction of good angles among all given neck and torso angles, pooled together.
//ok is false when there is no finite angle at all (not enough data yet).
func GoodPostureRate(neckAngles, torsoAngles []float64) (rate float64, ok bool) {
	neckAngles, torsoAngles = utils.FiniteOnly(neckAngles), utils.FiniteOnly(torsoAngles)

	total := len(neckAngles) + len(torsoAngles)
	if total == 0 {
		return 0, false
	}

	good := 0
	for _, a := range neckAngles {
		if a < utils.GoodNeckAngle {
			good++
		}
	}
	for _, a := range torsoAngles {
		if a < utils.GoodTorsoAngle {
			good++
		}
	}

	return float64(good) / float64(total), true
}

//Aura scores a session: every degree under the good threshold earns points, every degree above it costs points.
//It is unbounded and can be negative.
func Aura(neckAngles, torsoAngles []float64) int {
	sum := 0.0
	for _, a := range utils.FiniteOnly(neckAngles) {
		sum += utils.AuraWeight * (utils.GoodNeckAngle - a)
	}
	for _, a := range utils.FiniteOnly(torsoAngles) {
		sum += utils.AuraWeight * (utils.GoodTorsoAngle - a)
	}

	return int(sum)
}
