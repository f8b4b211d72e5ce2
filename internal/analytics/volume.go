package analytics

// VolumeEntry is the training volume of one logged exercise session.
type VolumeEntry struct {
	Date     string  `json:"date"`
	Exercise string  `json:"exercise"`
	Volume   float64 `json:"volume"`
}

// Volume flattens the series into one volume entry per logged workout,
// preserving day order and the workout order within each day. Sessions
// whose rep list never parses still appear, with volume zero.
func (e *Engine) Volume() []VolumeEntry {
	if e.volume != nil {
		return e.volume
	}

	out := []VolumeEntry{}
	for _, d := range e.days() {
		for _, w := range d.Workouts {
			out = append(out, VolumeEntry{
				Date:     d.Date,
				Exercise: w.Name,
				Volume:   w.Volume(),
			})
		}
	}

	e.volume = out
	return out
}
