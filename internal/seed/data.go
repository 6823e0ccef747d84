package seed

import "github.com/okian/rendezvous/internal/domain/model"

// sampleResult places a participant in the sample event with EventName.
type sampleResult struct {
	EventName   string
	Participant string
	Position    int
}

func sampleEvents() []model.Event {
	return []model.Event{
		{
			Name:        "Opening Ceremony",
			Category:    "Cultural",
			Date:        "2024-01-15",
			Time:        "10:00",
			Venue:       "Main Auditorium",
			Description: "Grand opening of Rendezvous 2024",
		},
		{
			Name:        "Tech Quiz",
			Category:    "Technical",
			Date:        "2024-01-16",
			Time:        "14:00",
			Venue:       "Computer Lab",
			Description: "Technical quiz competition",
		},
	}
}

func sampleResults() []sampleResult {
	return []sampleResult{
		{EventName: "Tech Quiz", Participant: "Team Alpha", Position: 1},
		{EventName: "Tech Quiz", Participant: "Team Beta", Position: 2},
	}
}

func sampleGallery() []model.GalleryItem {
	return []model.GalleryItem{
		{
			Title:       "Cultural Performance",
			Description: "Amazing cultural show",
			Category:    "Cultural",
			EventName:   "Cultural Night",
		},
	}
}

func sampleAnnouncements() []model.Announcement {
	return []model.Announcement{
		{
			Title:    "Welcome to Rendezvous 2024",
			Content:  "Join us for an amazing festival experience!",
			Priority: model.PriorityHigh,
			Category: "general",
			Active:   true,
		},
	}
}
