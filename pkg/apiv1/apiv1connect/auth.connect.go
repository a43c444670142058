package apiv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	apiv1 "github.com/mmynk/settleup/pkg/apiv1"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "settleup.v1.AuthService"

// Procedure paths of AuthService.
const (
	AuthServiceRegisterProcedure       = "/settleup.v1.AuthService/Register"
	AuthServiceVerifySignupProcedure   = "/settleup.v1.AuthService/VerifySignup"
	AuthServiceLoginProcedure          = "/settleup.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/settleup.v1.AuthService/GetCurrentUser"
)

// AuthServiceClient is a client for the settleup.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[apiv1.RegisterRequest]) (*connect.Response[apiv1.RegisterResponse], error)
	VerifySignup(context.Context, *connect.Request[apiv1.VerifySignupRequest]) (*connect.Response[apiv1.VerifySignupResponse], error)
	Login(context.Context, *connect.Request[apiv1.LoginRequest]) (*connect.Response[apiv1.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[apiv1.GetCurrentUserRequest]) (*connect.Response[apiv1.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the settleup.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[apiv1.RegisterRequest, apiv1.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		verifySignup:   connect.NewClient[apiv1.VerifySignupRequest, apiv1.VerifySignupResponse](httpClient, baseURL+AuthServiceVerifySignupProcedure, opts...),
		login:          connect.NewClient[apiv1.LoginRequest, apiv1.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[apiv1.GetCurrentUserRequest, apiv1.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[apiv1.RegisterRequest, apiv1.RegisterResponse]
	verifySignup   *connect.Client[apiv1.VerifySignupRequest, apiv1.VerifySignupResponse]
	login          *connect.Client[apiv1.LoginRequest, apiv1.LoginResponse]
	getCurrentUser *connect.Client[apiv1.GetCurrentUserRequest, apiv1.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[apiv1.RegisterRequest]) (*connect.Response[apiv1.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) VerifySignup(ctx context.Context, req *connect.Request[apiv1.VerifySignupRequest]) (*connect.Response[apiv1.VerifySignupResponse], error) {
	return c.verifySignup.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[apiv1.LoginRequest]) (*connect.Response[apiv1.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[apiv1.GetCurrentUserRequest]) (*connect.Response[apiv1.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of settleup.v1.AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[apiv1.RegisterRequest]) (*connect.Response[apiv1.RegisterResponse], error)
	VerifySignup(context.Context, *connect.Request[apiv1.VerifySignupRequest]) (*connect.Response[apiv1.VerifySignupResponse], error)
	Login(context.Context, *connect.Request[apiv1.LoginRequest]) (*connect.Response[apiv1.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[apiv1.GetCurrentUserRequest]) (*connect.Response[apiv1.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	verifySignup := connect.NewUnaryHandler(AuthServiceVerifySignupProcedure, svc.VerifySignup, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentUser := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/settleup.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceVerifySignupProcedure:
			verifySignup.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[apiv1.RegisterRequest]) (*connect.Response[apiv1.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.Register is not implemented"))
}

func (UnimplementedAuthServiceHandler) VerifySignup(context.Context, *connect.Request[apiv1.VerifySignupRequest]) (*connect.Response[apiv1.VerifySignupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.VerifySignup is not implemented"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[apiv1.LoginRequest]) (*connect.Response[apiv1.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[apiv1.GetCurrentUserRequest]) (*connect.Response[apiv1.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.GetCurrentUser is not implemented"))
}
