package http

import (
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type adRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Address             string   `json:"address"`
	Budget              int      `json:"budget"`
	ContactNumber       string   `json:"contactNumber"`
	AccomplishFromDate  *string  `json:"accomplishFromDate"`
	AccomplishUntilDate *string  `json:"accomplishUntilDate"`
	ImageIDs            []string `json:"imageIds"`
}

func (r adRequest) toFields() (entity.AdFields, error) {
	fields := entity.AdFields{
		Title:         r.Title,
		Description:   r.Description,
		Address:       r.Address,
		Budget:        r.Budget,
		ContactNumber: r.ContactNumber,
	}

	var err error
	if fields.AccomplishFromDate, err = parseDate(r.AccomplishFromDate); err != nil {
		return fields, &entity.ValidationError{Fields: []entity.FieldError{
			{Field: "accomplishFromDate", Message: "must be a date in YYYY-MM-DD format"},
		}}
	}
	if fields.AccomplishUntilDate, err = parseDate(r.AccomplishUntilDate); err != nil {
		return fields, &entity.ValidationError{Fields: []entity.FieldError{
			{Field: "accomplishUntilDate", Message: "must be a date in YYYY-MM-DD format"},
		}}
	}
	return fields, nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

type adResponse struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Description         string  `json:"description,omitempty"`
	Address             string  `json:"address"`
	Budget              int     `json:"budget"`
	ContactNumber       string  `json:"contactNumber"`
	AuthorID            string  `json:"authorId"`
	Status              string  `json:"status"`
	PreviewImageSource  string  `json:"previewImageSource,omitempty"`
	AccomplishFromDate  *string `json:"accomplishFromDate,omitempty"`
	AccomplishUntilDate *string `json:"accomplishUntilDate,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

func toAdResponse(ad *entity.Ad) adResponse {
	return adResponse{
		ID:                  ad.ID,
		Title:               ad.Title,
		Description:         ad.Description,
		Address:             ad.Address,
		Budget:              ad.Budget,
		ContactNumber:       ad.ContactNumber,
		AuthorID:            ad.AuthorID,
		Status:              string(ad.Status),
		PreviewImageSource:  ad.PreviewImageSource,
		AccomplishFromDate:  formatDate(ad.AccomplishFromDate),
		AccomplishUntilDate: formatDate(ad.AccomplishUntilDate),
		CreatedAt:           ad.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           ad.UpdatedAt.Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

type adListResponse struct {
	Ads        []adResponse `json:"ads"`
	TotalCount int64        `json:"totalCount"`
}

type requestBody struct {
	Comment string `json:"comment"`
}

type requestResponse struct {
	ID           string `json:"id"`
	Comment      string `json:"comment,omitempty"`
	ContractorID string `json:"contractorId"`
	AdID         string `json:"adId"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toRequestResponse(request *entity.Request) requestResponse {
	return requestResponse{
		ID:           request.ID,
		Comment:      request.Comment,
		ContractorID: request.ContractorID,
		AdID:         request.AdID,
		Status:       string(request.Status),
		CreatedAt:    request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    request.UpdatedAt.Format(time.RFC3339),
	}
}

type imageResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	AdID   string `json:"adId,omitempty"`
	Order  int    `json:"order,omitempty"`
}

func toImageResponse(img *entity.AdImage) imageResponse {
	return imageResponse{
		ID:     img.ID,
		Source: img.Source,
		AdID:   img.AdID,
		Order:  img.Order,
	}
}
