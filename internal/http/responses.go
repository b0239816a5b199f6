package http

import (
	"math"
	"time"

	"budong-api/internal/auth"
	"budong-api/internal/domain"
	"budong-api/internal/geo"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type BuildingResponse struct {
	ID         int64    `json:"id"`
	BjdCode    *int64   `json:"bjd_code"`
	Address    string   `json:"address"`
	Name       *string  `json:"name"`
	Type       *string  `json:"type"`
	BuildYear  *string  `json:"build_year"`
	TotalUnits *string  `json:"total_units"`
	Location   *string  `json:"location"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type BuildingMatchResponse struct {
	BuildingResponse
	Distance float64 `json:"distance_meters"`
}

type TransactionResponse struct {
	ID      int64    `json:"id"`
	Date    *string  `json:"transaction_date"`
	Price   int64    `json:"price"`
	AreaSqm *float64 `json:"area_sqm"`
	Floor   *float64 `json:"floor"`
}

type ReviewResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	BuildingID int64  `json:"building_id"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

type SchoolResponse struct {
	ID        int64   `json:"id"`
	Name      *string `json:"name"`
	Level     *string `json:"level"`
	Category  *string `json:"category"`
	Address   *string `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_meters"`
}

type StationResponse struct {
	ID        int64   `json:"id"`
	Line      *int64  `json:"line"`
	Name      *string `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_meters"`
}

type ParkResponse struct {
	Name      string  `json:"name"`
	Size      *string `json:"size"`
	Address   *string `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_meters"`
}

type InfrastructureResponse struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Location string  `json:"location"`
	Distance float64 `json:"distance_meters"`
}

type NoiseResponse struct {
	Address   string  `json:"address"`
	MaxDB     *int64  `json:"max_db"`
	AvgDB     *int64  `json:"avg_db"`
	MinDB     *int64  `json:"min_db"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_meters"`
}

type RegionResponse struct {
	BjdCode int64   `json:"bjd_code"`
	Name    *string `json:"name"`
	NameEng *string `json:"name_eng"`
}

type RegionStatResponse struct {
	Year  int     `json:"year"`
	Type  string  `json:"stats_type"`
	Value float64 `json:"stats_value"`
}

type SavedBuildingResponse struct {
	ID         int64   `json:"id"`
	BuildingID int64   `json:"building_id"`
	Memo       *string `json:"memo"`
	CreatedAt  string  `json:"created_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func tokensToResponse(p auth.TokenPair, now time.Time) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(math.Max(0, p.AccessExpiresAt.Sub(now).Seconds())),
	}
}

func buildingToResponse(b domain.Building) BuildingResponse {
	resp := BuildingResponse{
		ID:         b.ID,
		BjdCode:    b.BjdCode,
		Address:    b.Address,
		Name:       b.Name,
		Type:       b.Type,
		BuildYear:  b.BuildYear,
		TotalUnits: b.TotalUnits,
		Location:   b.LocationWKT,
	}
	if c, ok := b.Location(); ok {
		resp.Latitude = &c.Lat
		resp.Longitude = &c.Lon
	}
	return resp
}

func transactionToResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{ID: t.ID, Date: t.Date, Price: t.Price, AreaSqm: t.AreaSqm, Floor: t.Floor}
}

func reviewToResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		BuildingID: r.BuildingID,
		Rating:     r.Rating,
		Content:    r.Content,
		CreatedAt:  formatTime(r.CreatedAt),
	}
}

func savedToResponse(s domain.SavedBuilding) SavedBuildingResponse {
	return SavedBuildingResponse{
		ID:         s.ID,
		BuildingID: s.BuildingID,
		Memo:       s.Memo,
		CreatedAt:  formatTime(s.CreatedAt),
	}
}

func buildingMatchToResponse(m geo.Match[domain.Building]) BuildingMatchResponse {
	return BuildingMatchResponse{BuildingResponse: buildingToResponse(m.Item), Distance: round(m.Distance)}
}

func schoolToResponse(m geo.Match[domain.School]) SchoolResponse {
	s := m.Item
	return SchoolResponse{
		ID: s.ID, Name: s.Name, Level: s.Level, Category: s.Category, Address: s.Address,
		Latitude: m.Point.Lat, Longitude: m.Point.Lon, Distance: round(m.Distance),
	}
}

func stationToResponse(m geo.Match[domain.Station]) StationResponse {
	return StationResponse{
		ID: m.Item.ID, Line: m.Item.Line, Name: m.Item.Name,
		Latitude: m.Point.Lat, Longitude: m.Point.Lon, Distance: round(m.Distance),
	}
}

func parkToResponse(m geo.Match[domain.Park]) ParkResponse {
	return ParkResponse{
		Name: m.Item.Name, Size: m.Item.Size, Address: m.Item.Address,
		Latitude: m.Point.Lat, Longitude: m.Point.Lon, Distance: round(m.Distance),
	}
}

func infrastructureToResponse(m geo.Match[domain.Infrastructure]) InfrastructureResponse {
	return InfrastructureResponse{
		ID: m.Item.ID, Category: string(m.Item.Category), Name: m.Item.Name,
		Address: m.Item.Address, Location: m.Item.LocationWKT, Distance: round(m.Distance),
	}
}

func noiseToResponse(m geo.Match[domain.NoiseSensor]) NoiseResponse {
	return NoiseResponse{
		Address: m.Item.Address, MaxDB: m.Item.Max, AvgDB: m.Item.Avg, MinDB: m.Item.Min,
		Latitude: m.Point.Lat, Longitude: m.Point.Lon, Distance: round(m.Distance),
	}
}

func regionToResponse(r *domain.Region) *RegionResponse {
	if r == nil {
		return nil
	}
	return &RegionResponse{BjdCode: r.BjdCode, Name: r.Name, NameEng: r.NameEng}
}

// mapAll converts every element and never returns nil, so JSON gets [].
func mapAll[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i := range in {
		out[i] = f(in[i])
	}
	return out
}

// round keeps distances to centimetres.
func round(meters float64) float64 {
	return math.Round(meters*100) / 100
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
