package detector

// CountFingers reduces one detected hand to the number of raised
// fingers, 0..5. The thumb reads along the x axis, TIP against IP, with
// the comparison direction chosen by handedness because the thumb
// mirrors between hands. The other four fingers read along the y axis:
// TIP above PIP means extended (normalized coordinates put 0 at the top
// of the frame). A nil hand counts as 0.
func CountFingers(hand *HandLandmarks) int {
	if hand == nil {
		return 0
	}

	count := 0

	thumbTip := hand.Points[ThumbTip]
	thumbIP := hand.Points[ThumbIP]
	if hand.Handedness == "Right" {
		if thumbTip.X < thumbIP.X {
			count++
		}
	} else {
		if thumbTip.X > thumbIP.X {
			count++
		}
	}

	pairs := [4][2]int{
		{IndexTip, IndexPIP},
		{MiddleTip, MiddlePIP},
		{RingTip, RingPIP},
		{PinkyTip, PinkyPIP},
	}
	for _, p := range pairs {
		if hand.Points[p[0]].Y < hand.Points[p[1]].Y {
			count++
		}
	}

	return count
}
