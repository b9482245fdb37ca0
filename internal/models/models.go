package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types accepted by the events collection.
const (
	EventTypeRunning  = "running"
	EventTypeCycling  = "cycling"
	EventTypeWalking  = "walking"
	EventTypeSwimming = "swimming"
	EventTypeOther    = "other"
)

func ValidEventType(value string) bool {
	switch value {
	case EventTypeRunning, EventTypeCycling, EventTypeWalking, EventTypeSwimming, EventTypeOther:
		return true
	}
	return false
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirebaseUID      string             `bson:"firebase_uid" json:"firebaseUid"`
	Email            string             `bson:"email" json:"email"`
	FirstName        string             `bson:"first_name" json:"firstName"`
	LastName         string             `bson:"last_name" json:"lastName"`
	FullName         string             `bson:"full_name" json:"fullName"`
	IsAdmin          bool               `bson:"is_admin" json:"isAdmin"`
	ContactNumber    string             `bson:"contact_number" json:"contactNumber"`
	AgeCategory      string             `bson:"age_category" json:"ageCategory"`
	City             string             `bson:"city" json:"city"`
	State            string             `bson:"state" json:"state"`
	Country          string             `bson:"country" json:"country"`
	BibNumber        string             `bson:"bib_number,omitempty" json:"bibNumber,omitempty"`
	RegisteredEvents []string           `bson:"registered_events" json:"registeredEvents"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ProfileComplete reports whether the fields collected during full
// registration are all present. Auto-provisioned users fail this until
// they finish registration.
func (u User) ProfileComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.ContactNumber != "" &&
		u.AgeCategory != "" && u.City != "" && u.State != "" && u.Country != ""
}

type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	EventType      string             `bson:"event_type" json:"eventType"`
	StartDate      time.Time          `bson:"start_date" json:"startDate"`
	EndDate        time.Time          `bson:"end_date" json:"endDate"`
	TargetDistance *float64           `bson:"target_distance,omitempty" json:"targetDistance,omitempty"`
	TargetTime     *int               `bson:"target_time,omitempty" json:"targetTime,omitempty"`
	CreatedBy      string             `bson:"created_by" json:"createdBy"`
	Participants   []string           `bson:"participants" json:"participants"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// HasParticipant reports whether userID is in the participant set.
func (e Event) HasParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

type Progress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"event_id" json:"eventId"`
	UserID    string             `bson:"user_id" json:"userId"`
	Distance  *float64           `bson:"distance,omitempty" json:"distance,omitempty"`
	Time      *int               `bson:"time,omitempty" json:"time,omitempty"`
	Notes     *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Date      string             `bson:"date" json:"date"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// LeaderboardEntry is one ranked row of an event leaderboard.
type LeaderboardEntry struct {
	Rank          int       `bson:"-" json:"rank"`
	UserID        string    `bson:"_id" json:"userId"`
	TotalDistance float64   `bson:"total_distance" json:"totalDistance"`
	TotalTime     int       `bson:"total_time" json:"totalTime"`
	LastUpdate    time.Time `bson:"last_update" json:"lastUpdate"`
}

type Photo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"image_url" json:"imageUrl"`
	PhotoDate   string             `bson:"photo_date,omitempty" json:"photoDate,omitempty"`
	CreatedBy   string             `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

type Article struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Subtitle   string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Category   string             `bson:"category" json:"category"`
	Content    string             `bson:"content" json:"content"`
	Author     string             `bson:"author" json:"author"`
	AuthorName string             `bson:"author_name,omitempty" json:"authorName,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

type MetricSample struct {
	CapturedAt        time.Time `bson:"captured_at" json:"capturedAt"`
	HeapUsedBytes     int64     `bson:"heap_used_bytes" json:"heapUsedBytes"`
	HeapMaxBytes      int64     `bson:"heap_max_bytes" json:"heapMaxBytes"`
	SystemMemoryTotal int64     `bson:"system_memory_total_bytes" json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `bson:"system_memory_used_bytes" json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `bson:"disk_total_bytes" json:"diskTotalBytes"`
	DiskUsedBytes     int64     `bson:"disk_used_bytes" json:"diskUsedBytes"`
	ProcessCpuLoad    float64   `bson:"process_cpu_load" json:"processCpuLoad"`
	SystemCpuLoad     float64   `bson:"system_cpu_load" json:"systemCpuLoad"`
}
