package render

import "time"

// FPS is the frame rate of the ChatWrapped composition.
const FPS = 30

type Scene struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"-"`
	Frames   int           `json:"frames"`
}

// Schedule is the fixed scene order handed to the renderer with the data.
type Schedule struct {
	FPS         int     `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
	Scenes      []Scene `json:"scenes"`
}

// DefaultSchedule is title → overview → patterns → themes → timeline → outro.
func DefaultSchedule() Schedule {
	return NewSchedule(FPS, []Scene{
		{Name: "title", Duration: 3 * time.Second},
		{Name: "overview", Duration: 4 * time.Second},
		{Name: "patterns", Duration: 4 * time.Second},
		{Name: "themes", Duration: 3 * time.Second},
		{Name: "timeline", Duration: 3 * time.Second},
		{Name: "outro", Duration: 2 * time.Second},
	})
}

func NewSchedule(fps int, scenes []Scene) Schedule {
	s := Schedule{FPS: fps, Scenes: make([]Scene, len(scenes))}
	for i, sc := range scenes {
		sc.Frames = int(sc.Duration.Seconds() * float64(fps))
		s.Scenes[i] = sc
		s.TotalFrames += sc.Frames
	}
	return s
}

// SceneAt returns the scene playing at frame and the frame offset inside it.
// Frames past the end stay on the last scene.
func (s Schedule) SceneAt(frame int) (string, int) {
	if len(s.Scenes) == 0 {
		return "", frame
	}
	if frame < 0 {
		frame = 0
	}
	start := 0
	for _, sc := range s.Scenes {
		if frame < start+sc.Frames {
			return sc.Name, frame - start
		}
		start += sc.Frames
	}
	last := s.Scenes[len(s.Scenes)-1]
	return last.Name, frame - (start - last.Frames)
}
