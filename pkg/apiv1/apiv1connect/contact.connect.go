package apiv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	apiv1 "github.com/mmynk/settleup/pkg/apiv1"
)

// ContactServiceName is the fully-qualified name of the ContactService service.
const ContactServiceName = "settleup.v1.ContactService"

// Procedure paths of ContactService.
const (
	ContactServiceCreateContactProcedure = "/settleup.v1.ContactService/CreateContact"
	ContactServiceGetContactProcedure    = "/settleup.v1.ContactService/GetContact"
	ContactServiceListContactsProcedure  = "/settleup.v1.ContactService/ListContacts"
	ContactServiceUpdateContactProcedure = "/settleup.v1.ContactService/UpdateContact"
	ContactServiceDeleteContactProcedure = "/settleup.v1.ContactService/DeleteContact"
)

// ContactServiceClient is a client for the settleup.v1.ContactService service.
type ContactServiceClient interface {
	CreateContact(context.Context, *connect.Request[apiv1.CreateContactRequest]) (*connect.Response[apiv1.CreateContactResponse], error)
	GetContact(context.Context, *connect.Request[apiv1.GetContactRequest]) (*connect.Response[apiv1.GetContactResponse], error)
	ListContacts(context.Context, *connect.Request[apiv1.ListContactsRequest]) (*connect.Response[apiv1.ListContactsResponse], error)
	UpdateContact(context.Context, *connect.Request[apiv1.UpdateContactRequest]) (*connect.Response[apiv1.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[apiv1.DeleteContactRequest]) (*connect.Response[apiv1.DeleteContactResponse], error)
}

// NewContactServiceClient constructs a client for the settleup.v1.ContactService service.
func NewContactServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ContactServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &contactServiceClient{
		createContact: connect.NewClient[apiv1.CreateContactRequest, apiv1.CreateContactResponse](httpClient, baseURL+ContactServiceCreateContactProcedure, opts...),
		getContact:    connect.NewClient[apiv1.GetContactRequest, apiv1.GetContactResponse](httpClient, baseURL+ContactServiceGetContactProcedure, opts...),
		listContacts:  connect.NewClient[apiv1.ListContactsRequest, apiv1.ListContactsResponse](httpClient, baseURL+ContactServiceListContactsProcedure, opts...),
		updateContact: connect.NewClient[apiv1.UpdateContactRequest, apiv1.UpdateContactResponse](httpClient, baseURL+ContactServiceUpdateContactProcedure, opts...),
		deleteContact: connect.NewClient[apiv1.DeleteContactRequest, apiv1.DeleteContactResponse](httpClient, baseURL+ContactServiceDeleteContactProcedure, opts...),
	}
}

type contactServiceClient struct {
	createContact *connect.Client[apiv1.CreateContactRequest, apiv1.CreateContactResponse]
	getContact    *connect.Client[apiv1.GetContactRequest, apiv1.GetContactResponse]
	listContacts  *connect.Client[apiv1.ListContactsRequest, apiv1.ListContactsResponse]
	updateContact *connect.Client[apiv1.UpdateContactRequest, apiv1.UpdateContactResponse]
	deleteContact *connect.Client[apiv1.DeleteContactRequest, apiv1.DeleteContactResponse]
}

func (c *contactServiceClient) CreateContact(ctx context.Context, req *connect.Request[apiv1.CreateContactRequest]) (*connect.Response[apiv1.CreateContactResponse], error) {
	return c.createContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) GetContact(ctx context.Context, req *connect.Request[apiv1.GetContactRequest]) (*connect.Response[apiv1.GetContactResponse], error) {
	return c.getContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) ListContacts(ctx context.Context, req *connect.Request[apiv1.ListContactsRequest]) (*connect.Response[apiv1.ListContactsResponse], error) {
	return c.listContacts.CallUnary(ctx, req)
}

func (c *contactServiceClient) UpdateContact(ctx context.Context, req *connect.Request[apiv1.UpdateContactRequest]) (*connect.Response[apiv1.UpdateContactResponse], error) {
	return c.updateContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) DeleteContact(ctx context.Context, req *connect.Request[apiv1.DeleteContactRequest]) (*connect.Response[apiv1.DeleteContactResponse], error) {
	return c.deleteContact.CallUnary(ctx, req)
}

// ContactServiceHandler is implemented by the server side of settleup.v1.ContactService.
type ContactServiceHandler interface {
	CreateContact(context.Context, *connect.Request[apiv1.CreateContactRequest]) (*connect.Response[apiv1.CreateContactResponse], error)
	GetContact(context.Context, *connect.Request[apiv1.GetContactRequest]) (*connect.Response[apiv1.GetContactResponse], error)
	ListContacts(context.Context, *connect.Request[apiv1.ListContactsRequest]) (*connect.Response[apiv1.ListContactsResponse], error)
	UpdateContact(context.Context, *connect.Request[apiv1.UpdateContactRequest]) (*connect.Response[apiv1.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[apiv1.DeleteContactRequest]) (*connect.Response[apiv1.DeleteContactResponse], error)
}

// NewContactServiceHandler builds an HTTP handler from the service implementation.
func NewContactServiceHandler(svc ContactServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createContact := connect.NewUnaryHandler(ContactServiceCreateContactProcedure, svc.CreateContact, opts...)
	getContact := connect.NewUnaryHandler(ContactServiceGetContactProcedure, svc.GetContact, opts...)
	listContacts := connect.NewUnaryHandler(ContactServiceListContactsProcedure, svc.ListContacts, opts...)
	updateContact := connect.NewUnaryHandler(ContactServiceUpdateContactProcedure, svc.UpdateContact, opts...)
	deleteContact := connect.NewUnaryHandler(ContactServiceDeleteContactProcedure, svc.DeleteContact, opts...)
	return "/settleup.v1.ContactService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ContactServiceCreateContactProcedure:
			createContact.ServeHTTP(w, r)
		case ContactServiceGetContactProcedure:
			getContact.ServeHTTP(w, r)
		case ContactServiceListContactsProcedure:
			listContacts.ServeHTTP(w, r)
		case ContactServiceUpdateContactProcedure:
			updateContact.ServeHTTP(w, r)
		case ContactServiceDeleteContactProcedure:
			deleteContact.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedContactServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedContactServiceHandler struct{}

func (UnimplementedContactServiceHandler) CreateContact(context.Context, *connect.Request[apiv1.CreateContactRequest]) (*connect.Response[apiv1.CreateContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ContactService.CreateContact is not implemented"))
}

func (UnimplementedContactServiceHandler) GetContact(context.Context, *connect.Request[apiv1.GetContactRequest]) (*connect.Response[apiv1.GetContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ContactService.GetContact is not implemented"))
}

func (UnimplementedContactServiceHandler) ListContacts(context.Context, *connect.Request[apiv1.ListContactsRequest]) (*connect.Response[apiv1.ListContactsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ContactService.ListContacts is not implemented"))
}

func (UnimplementedContactServiceHandler) UpdateContact(context.Context, *connect.Request[apiv1.UpdateContactRequest]) (*connect.Response[apiv1.UpdateContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ContactService.UpdateContact is not implemented"))
}

func (UnimplementedContactServiceHandler) DeleteContact(context.Context, *connect.Request[apiv1.DeleteContactRequest]) (*connect.Response[apiv1.DeleteContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.ContactService.DeleteContact is not implemented"))
}
