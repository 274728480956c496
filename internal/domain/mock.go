package domain

const (
	imgShoreline = "https://images.unsplash.com/photo-1505142468610-359e7d316be0?w=600"
	imgBeach     = "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=600"
	imgCliffs    = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600"
	imgDunes     = "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=600"
	imgCove      = "https://images.unsplash.com/photo-1501426614570-ce3d7016574a?w=600"
)

// GenerateMock returns the fixed demo forecast for a model: seven daily
// entries for short-term and four weekly entries for long-term. The result
// is a fresh slice on every call. Unknown models get an empty list.
func GenerateMock(modelID string) PeriodList {
	switch modelID {
	case ShortTerm:
		return PeriodList{
			{Day: "Day 1", Erosion: 0.2, Confidence: 97, Image: imgShoreline},
			{Day: "Day 2", Erosion: 0.3, Confidence: 96, Image: imgBeach},
			{Day: "Day 3", Erosion: 0.15, Confidence: 98, Image: imgCliffs},
			{Day: "Day 4", Erosion: 0.25, Confidence: 95, Image: imgDunes},
			{Day: "Day 5", Erosion: 0.35, Confidence: 94, Image: imgCove},
			{Day: "Day 6", Erosion: 0.22, Confidence: 97, Image: imgShoreline},
			{Day: "Day 7", Erosion: 0.28, Confidence: 96, Image: imgBeach},
		}
	case LongTerm:
		return PeriodList{
			{Week: "Week 1", Erosion: 0.85, Confidence: 97, Image: imgShoreline},
			{Week: "Week 2", Erosion: 1.2, Confidence: 96, Image: imgBeach},
			{Week: "Week 3", Erosion: 0.95, Confidence: 95, Image: imgDunes},
			{Week: "Week 4", Erosion: 1.1, Confidence: 94, Image: imgCliffs},
		}
	}
	return PeriodList{}
}
