package accounthttp

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/account"
	httpdto "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/dto"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/ctxs"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/i18nx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/sanitizex"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("accounts/internal/ports/http/account")
	logger = otelslog.NewLogger("accounts/internal/ports/http/account")
)

// maxKYCDocumentSize caps the multipart upload body at 10 MiB.
const maxKYCDocumentSize = 10 << 20

var allowedKYCContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *accountapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *accountapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		app:        args.App,
		errhandler: args.Errhandler,
	}
}

// Route registers the account endpoints. The caller mounts it behind
// the auth middleware; every handler expects a user in the context.
func (h *HTTP) Route(r chi.Router) {
	r.Get("/v1/auth/profile", h.GetProfile)
	r.Put("/v1/auth/profile", h.PutProfile)
	r.Patch("/v1/auth/profile", h.PatchProfile)
	r.Post("/v1/auth/change-password", h.ChangePassword)
	r.Post("/v1/auth/kyc-documents", h.UploadKYCDocument)
}

func (h *HTTP) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProfile")
	defer span.End()

	cu, ok := ctxs.UserFromCtx(ctx)
	if !ok {
		err := errorx.NewInvalidCredentials().WithCause(errors.New("no user in context"))
		h.errhandler.HandleError(w, r, span, err, "no user in context")
		return
	}

	u, err := h.app.GetProfile(ctx, cu.ID)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get profile")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"user": httpdto.NewUserResponse(u)})
}

// UpdateProfileRequest serves both PUT and PATCH. PUT requires every
// field; PATCH updates whichever fields are present.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phone_number"`
}

func (r *UpdateProfileRequest) Sanitized() {
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := sanitizex.CleanSingleLine(*s)
		return &v
	}
	r.FirstName = clean(r.FirstName)
	r.LastName = clean(r.LastName)
	r.Country = clean(r.Country)
	r.PhoneNumber = clean(r.PhoneNumber)
}

func (r *UpdateProfileRequest) Validate(requireAll bool) error {
	required := func(rules []validation.Rule) []validation.Rule {
		if !requireAll {
			return rules
		}
		return append([]validation.Rule{validation.NotNil}, rules...)
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.FirstName, required(validationx.NameRules)...),
		validation.Field(&r.LastName, required(validationx.NameRules)...),
		validation.Field(&r.Country, required(validationx.CountryRules)...),
		validation.Field(&r.PhoneNumber, required(validationx.PhoneRules)...),
	)
}

func (h *HTTP) PutProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, "PutProfile", true)
}

func (h *HTTP) PatchProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, "PatchProfile", false)
}

func (h *HTTP) updateProfile(w http.ResponseWriter, r *http.Request, spanName string, requireAll bool) {
	ctx, span := h.tracer.Start(r.Context(), spanName)
	defer span.End()

	cu, ok := ctxs.UserFromCtx(ctx)
	if !ok {
		err := errorx.NewInvalidCredentials().WithCause(errors.New("no user in context"))
		h.errhandler.HandleError(w, r, span, err, "no user in context")
		return
	}

	var req UpdateProfileRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	err := req.Validate(requireAll)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	u, err := h.app.UpdateProfileHandle(ctx, accountapp.UpdateProfile{
		UserID:      cu.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to update profile")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"user": httpdto.NewUserResponse(u)})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"old_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Sanitized() {
	r.CurrentPassword = strings.TrimSpace(r.CurrentPassword)
	r.NewPassword = strings.TrimSpace(r.NewPassword)
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrentPassword, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.NewPassword, validationx.PasswordRules...),
	)
}

func (h *HTTP) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ChangePassword")
	defer span.End()

	cu, ok := ctxs.UserFromCtx(ctx)
	if !ok {
		err := errorx.NewInvalidCredentials().WithCause(errors.New("no user in context"))
		h.errhandler.HandleError(w, r, span, err, "no user in context")
		return
	}

	var req ChangePasswordRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	cmd := accountapp.ChangePassword{
		UserID:          cu.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.app.ChangePasswordHandle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to change password")
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}

func (h *HTTP) UploadKYCDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UploadKYCDocument")
	defer span.End()

	cu, ok := ctxs.UserFromCtx(ctx)
	if !ok {
		err := errorx.NewInvalidCredentials().WithCause(errors.New("no user in context"))
		h.errhandler.HandleError(w, r, span, err, "no user in context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxKYCDocumentSize)
	if err := r.ParseMultipartForm(maxKYCDocumentSize); err != nil {
		err = errorx.NewInvalidRequest().WithCause(err)
		h.errhandler.HandleError(w, r, span, err, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		err = errorx.NewInvalidRequest().WithCause(err)
		h.errhandler.HandleError(w, r, span, err, "missing document file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedKYCContentTypes[contentType]; !ok {
		err = errorx.NewInvalidRequest().WithKey(i18nx.KeyUnsupportedDocumentType)
		h.errhandler.HandleError(w, r, span, err, "unsupported document content type")
		return
	}

	otelx.SetSpanAttrs(span, map[string]any{
		"document.content_type": contentType,
		"document.size":         header.Size,
	})

	cmd := accountapp.UploadKYCDocument{
		UserID:      cu.ID,
		FileName:    header.Filename,
		ContentType: contentType,
		File:        file,
	}
	if err := h.app.UploadKYCDocumentHandle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to upload kyc document")
		return
	}

	httpx.Success(w, r, http.StatusCreated, nil)
}
