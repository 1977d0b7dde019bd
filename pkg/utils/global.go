package utils

//StandardInputWidth is the width (in pixels) every frame is resized to before landmark detection
const StandardInputWidth = 1280

//NeckAngleOffset corrects the ear-shoulder-hip angle into neck flexion (degrees)
const NeckAngleOffset = 12

//GoodNeckAngle is the exclusive upper bound (degrees) of a good neck angle
const GoodNeckAngle = 18

//GoodTorsoAngle is the exclusive upper bound (degrees) of a good torso angle
const GoodTorsoAngle = 10

//AuraWeight multiplies every degree below/above the good threshold when scoring aura
const AuraWeight = 10

//MaxEarOffset is the max distance between both ears (normalized coordinates) for a side-profile frame.
//An older iteration used 0.05, which rejected too many frames of people sitting slightly turned.
const MaxEarOffset = 0.09

//MaxShoulderOffset is the max distance between both shoulders for a side-profile frame
const MaxShoulderOffset = 0.14

//MaxHipOffset is the max distance between both hips for a side-profile frame
const MaxHipOffset = 0.12

//MinEarVisibility is the exclusive lower bound of left + right ear visibility
const MinEarVisibility = 0.8

//MinShoulderVisibility is the exclusive lower bound of left + right shoulder visibility
const MinShoulderVisibility = 0.8

//MinHipVisibility is the exclusive lower bound of left + right hip visibility (hips are often hidden by a desk)
const MinHipVisibility = 0.3

//DefaultSessionID is the session used when a request does not name one
const DefaultSessionID = "default"
