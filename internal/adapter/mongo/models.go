package mongo

import (
	"fmt"
	"time"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Title               string             `bson:"title"`
	Description         string             `bson:"description,omitempty"`
	Address             string             `bson:"address"`
	Budget              int                `bson:"budget"`
	ContactNumber       string             `bson:"contact_number"`
	AuthorID            string             `bson:"author_id"`
	Status              entity.AdStatus    `bson:"status"`
	PreviewImageSource  string             `bson:"preview_image_source,omitempty"`
	AccomplishFromDate  *time.Time         `bson:"accomplish_from_date,omitempty"`
	AccomplishUntilDate *time.Time         `bson:"accomplish_until_date,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
	Version             int                `bson:"version"`
}

type requestDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Comment         string               `bson:"comment,omitempty"`
	ContractorID    string               `bson:"contractor_id"`
	ContractorEmail string               `bson:"contractor_email,omitempty"`
	AdID            string               `bson:"ad_id,omitempty"`
	Status          entity.RequestStatus `bson:"status"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

type imageDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Source string             `bson:"source"`
	AdID   string             `bson:"ad_id,omitempty"`
	Order  int                `bson:"order,omitempty"`
}

func parseDocumentID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid document id %q: %w", id, err)
	}
	return objID, nil
}

func toAdDocument(ad *entity.Ad) (*adDocument, error) {
	docID, err := parseDocumentID(ad.ID)
	if err != nil {
		return nil, err
	}
	return &adDocument{
		ID:                  docID,
		Title:               ad.Title,
		Description:         ad.Description,
		Address:             ad.Address,
		Budget:              ad.Budget,
		ContactNumber:       ad.ContactNumber,
		AuthorID:            ad.AuthorID,
		Status:              ad.Status,
		PreviewImageSource:  ad.PreviewImageSource,
		AccomplishFromDate:  ad.AccomplishFromDate,
		AccomplishUntilDate: ad.AccomplishUntilDate,
		CreatedAt:           ad.CreatedAt,
		UpdatedAt:           ad.UpdatedAt,
		Version:             ad.Version,
	}, nil
}

func toDomainAd(doc *adDocument) *entity.Ad {
	return &entity.Ad{
		ID:                  doc.ID.Hex(),
		Title:               doc.Title,
		Description:         doc.Description,
		Address:             doc.Address,
		Budget:              doc.Budget,
		ContactNumber:       doc.ContactNumber,
		AuthorID:            doc.AuthorID,
		Status:              doc.Status,
		PreviewImageSource:  doc.PreviewImageSource,
		AccomplishFromDate:  doc.AccomplishFromDate,
		AccomplishUntilDate: doc.AccomplishUntilDate,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
		Version:             doc.Version,
	}
}

func toRequestDocument(request *entity.Request) (*requestDocument, error) {
	docID, err := parseDocumentID(request.ID)
	if err != nil {
		return nil, err
	}
	return &requestDocument{
		ID:              docID,
		Comment:         request.Comment,
		ContractorID:    request.ContractorID,
		ContractorEmail: request.ContractorEmail,
		AdID:            request.AdID,
		Status:          request.Status,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}, nil
}

func toDomainRequest(doc *requestDocument) *entity.Request {
	return &entity.Request{
		ID:              doc.ID.Hex(),
		Comment:         doc.Comment,
		ContractorID:    doc.ContractorID,
		ContractorEmail: doc.ContractorEmail,
		AdID:            doc.AdID,
		Status:          doc.Status,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func toDomainImage(doc *imageDocument) *entity.AdImage {
	return &entity.AdImage{
		ID:     doc.ID.Hex(),
		Source: doc.Source,
		AdID:   doc.AdID,
		Order:  doc.Order,
	}
}
