package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	pb "github.com/mmynk/settleup/pkg/apiv1"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

// ContactService implements the Connect ContactService.
type ContactService struct {
	apiv1connect.UnimplementedContactServiceHandler
	store storage.ContactStore
}

// NewContactService creates a new ContactService with the given storage backend.
func NewContactService(store storage.ContactStore) *ContactService {
	return &ContactService{store: store}
}

// CreateContact adds a contact with a zero balance.
func (s *ContactService) CreateContact(ctx context.Context, req *connect.Request[pb.CreateContactRequest]) (*connect.Response[pb.CreateContactResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateContact request received", "user_id", userID, "name", req.Msg.Name)

	contact := &models.Contact{
		OwnerUserID: userID,
		Name:        strings.TrimSpace(req.Msg.Name),
		Phone:       strings.TrimSpace(req.Msg.Phone),
		Email:       strings.TrimSpace(req.Msg.Email),
	}
	if err := contact.Validate(); err != nil {
		return nil, toConnectError("CreateContact", err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, toConnectError("CreateContact", err)
	}

	slog.Info("Contact created", "contact_id", contact.ID)
	return connect.NewResponse(&pb.CreateContactResponse{Contact: toProtoContact(contact)}), nil
}

// GetContact retrieves a contact by ID.
func (s *ContactService) GetContact(ctx context.Context, req *connect.Request[pb.GetContactRequest]) (*connect.Response[pb.GetContactResponse], error) {
	contact, err := s.store.GetContact(ctx, middleware.GetUserID(ctx), req.Msg.ContactId)
	if err != nil {
		return nil, toConnectError("GetContact", err)
	}
	return connect.NewResponse(&pb.GetContactResponse{Contact: toProtoContact(contact)}), nil
}

// ListContacts retrieves all contacts ordered by name.
func (s *ContactService) ListContacts(ctx context.Context, req *connect.Request[pb.ListContactsRequest]) (*connect.Response[pb.ListContactsResponse], error) {
	contacts, err := s.store.ListContacts(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError("ListContacts", err)
	}

	out := make([]*pb.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = toProtoContact(c)
	}
	return connect.NewResponse(&pb.ListContactsResponse{Contacts: out}), nil
}

// UpdateContact changes name, phone and email. The balance cannot be set.
func (s *ContactService) UpdateContact(ctx context.Context, req *connect.Request[pb.UpdateContactRequest]) (*connect.Response[pb.UpdateContactResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("UpdateContact request received", "user_id", userID, "contact_id", req.Msg.ContactId)

	contact := &models.Contact{
		ID:          req.Msg.ContactId,
		OwnerUserID: userID,
		Name:        strings.TrimSpace(req.Msg.Name),
		Phone:       strings.TrimSpace(req.Msg.Phone),
		Email:       strings.TrimSpace(req.Msg.Email),
	}
	if err := contact.Validate(); err != nil {
		return nil, toConnectError("UpdateContact", err)
	}
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return nil, toConnectError("UpdateContact", err)
	}

	// Fetch updated contact to get balance and CreatedAt
	updated, err := s.store.GetContact(ctx, userID, contact.ID)
	if err != nil {
		return nil, toConnectError("UpdateContact", err)
	}
	return connect.NewResponse(&pb.UpdateContactResponse{Contact: toProtoContact(updated)}), nil
}

// DeleteContact removes a contact and its transactions.
func (s *ContactService) DeleteContact(ctx context.Context, req *connect.Request[pb.DeleteContactRequest]) (*connect.Response[pb.DeleteContactResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("DeleteContact request received", "user_id", userID, "contact_id", req.Msg.ContactId)

	if err := s.store.DeleteContact(ctx, userID, req.Msg.ContactId); err != nil {
		return nil, toConnectError("DeleteContact", err)
	}

	slog.Info("Contact deleted", "contact_id", req.Msg.ContactId)
	return connect.NewResponse(&pb.DeleteContactResponse{}), nil
}
