package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
	"github.com/agroconnect/agroconnect_backend/repositories"
	"github.com/agroconnect/agroconnect_backend/utils"
	"github.com/agroconnect/agroconnect_backend/websocket"
)

// RequestController owns the service-request lifecycle endpoints.
type RequestController struct {
	DB          *mongo.Client
	requestRepo *repositories.RequestRepository
	userRepo    *repositories.UserRepository
	hub         *websocket.Hub
}

// NewRequestController creates a new request controller
func NewRequestController(db *mongo.Client, hub *websocket.Hub) *RequestController {
	return &RequestController{
		DB:          db,
		requestRepo: repositories.NewRequestRepository(db),
		userRepo:    repositories.NewUserRepository(db),
		hub:         hub,
	}
}

// CreateRequest lets a farmer open a new service request. The service type
// is denormalized onto the request and the estimated cost computed here;
// neither changes afterwards.
func (rc *RequestController) CreateRequest(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	farmerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var body models.CreateRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if body.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "serviceId is required",
		})
	}
	if err := body.FarmDetails.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Farm details (size and location) are required",
		})
	}

	serviceID, err := primitive.ObjectIDFromHex(body.ServiceID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid service ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var service models.Service
	err = config.GetCollection(rc.DB, "services").FindOne(ctx, bson.M{"_id": serviceID}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Service not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding service",
		})
	}

	request := models.NewRequest(farmerID, &service, &body, time.Now())
	request, err = rc.requestRepo.Insert(ctx, request)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error creating request",
		})
	}

	// Fan the new request out to connected providers that can serve it
	go func(req models.Request) {
		bgCtx, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		providerIDs, err := rc.userRepo.FindProviderIDsByCapability(bgCtx, req.ServiceType)
		if err != nil {
			return
		}
		rc.hub.NotifyRequestAvailable(providerIDs, req)
	}(*request)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Service request created successfully",
		Data:    request,
	})
}

// GetRequests lists requests for the caller's role. Farmers see their own,
// providers see their active workload (accepted/in_progress only, matching
// the original listing behavior), admins see everything. Newest first.
func (rc *RequestController) GetRequests(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	callerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var requests []models.Request
	switch claims.Role {
	case models.RoleFarmer:
		requests, err = rc.requestRepo.FindForFarmer(ctx, callerID)
	case models.RoleProvider:
		requests, err = rc.requestRepo.FindForProvider(ctx, callerID)
	case models.RoleAdmin:
		requests, err = rc.requestRepo.Find(ctx, bson.M{})
	default:
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Unauthorized role",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Requests fetched successfully",
		Data:    requests,
	})
}

// GetAvailableRequests lists pending requests the calling provider could
// claim, newest first.
func (rc *RequestController) GetAvailableRequests(c echo.Context) error {
	provider, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	capability := provider.Capability()
	if capability == "" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only providers can view available requests",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	requests, err := rc.requestRepo.FindAvailable(ctx, capability)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching available requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Available requests fetched successfully",
		Data:    requests,
	})
}

// AcceptRequest is the provider's claim on a pending request. The repository
// performs the claim as a single conditional write, so when two providers
// race only one wins; the loser sees the state conflict.
func (rc *RequestController) AcceptRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	provider, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requestRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Request not found",
		})
	}
	if request.Status != models.StatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Request is no longer available",
		})
	}
	if !models.CapabilityCovers(provider.Capability(), request.ServiceType) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You cannot accept this type of service",
		})
	}

	request, err = rc.requestRepo.Claim(ctx, id, provider.ID, time.Now())
	if err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Request is no longer available",
			})
		}
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Error accepting request",
		})
	}

	go rc.notifyFarmer(*request, provider.Name, true)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request accepted successfully",
		Data:    request,
	})
}

// UpdateRequestStatus advances the lifecycle on behalf of the assigned
// provider: accepted -> in_progress -> completed. Completion records the
// final cost, falling back to the estimate when none is supplied.
func (rc *RequestController) UpdateRequestStatus(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var body models.UpdateStatusBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requestRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Request not found",
		})
	}

	if request.Provider == nil || request.Provider.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized to update this request",
		})
	}

	if err := request.ApplyProviderStatus(body.Status, body.FinalCost, time.Now()); err != nil {
		code := models.StatusCode(err)
		msg := "Invalid status transition"
		if errors.Is(err, models.ErrValidation) {
			msg = "Invalid status. Use 'accepted', 'in_progress', or 'completed'"
		}
		return c.JSON(code, models.Response{
			Status:  code,
			Message: msg,
		})
	}
	if body.ProviderNotes != "" {
		request.ProviderNotes = body.ProviderNotes
	}

	if err := rc.requestRepo.Save(ctx, request); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating request",
		})
	}

	go rc.notifyFarmer(*request, "", false)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request status updated to " + request.Status,
		Data:    request,
	})
}

// UpdateRequest applies a role-scoped partial update. Providers may only
// touch status and their notes; farmers and admins may edit details,
// scheduling and farmer notes. Keys outside the caller's set are ignored.
func (rc *RequestController) UpdateRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var body models.UpdateRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requestRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Request not found",
		})
	}

	switch claims.Role {
	case models.RoleFarmer:
		if request.Farmer.Hex() != claims.UserID {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Not authorized",
			})
		}
	case models.RoleProvider:
		if request.Provider == nil || request.Provider.Hex() != claims.UserID {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Not authorized",
			})
		}
	case models.RoleAdmin:
	default:
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Unauthorized role",
		})
	}

	if err := request.ApplyPatch(claims.Role, &body, time.Now()); err != nil {
		code := models.StatusCode(err)
		return c.JSON(code, models.Response{
			Status:  code,
			Message: "Error updating request: " + err.Error(),
		})
	}

	if err := rc.requestRepo.Save(ctx, request); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating request",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request updated successfully",
		Data:    request,
	})
}

// GetRequest returns a single request, visible to its farmer, its assigned
// provider, and admins.
func (rc *RequestController) GetRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requestRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Request not found",
		})
	}

	if claims.Role == models.RoleFarmer && request.Farmer.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized",
		})
	}
	if claims.Role == models.RoleProvider && request.Provider != nil && request.Provider.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request fetched successfully",
		Data:    request,
	})
}

// DeleteRequest removes a request. Farmers may delete their own, admins any;
// providers are forbidden regardless of assignment.
func (rc *RequestController) DeleteRequest(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	if claims.Role == models.RoleProvider {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Providers cannot delete requests",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	request, err := rc.requestRepo.FindByID(ctx, id)
	if err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Request not found",
		})
	}
	if claims.Role == models.RoleFarmer && request.Farmer.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not authorized",
		})
	}

	if err := rc.requestRepo.Delete(ctx, id); err != nil {
		return c.JSON(models.StatusCode(err), models.Response{
			Status:  models.StatusCode(err),
			Message: "Error deleting request",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Request deleted successfully",
	})
}

// notifyFarmer pushes a websocket event to the farmer and, for acceptance and
// completion, sends a best-effort email. Runs from goroutines; failures are
// swallowed.
func (rc *RequestController) notifyFarmer(request models.Request, providerName string, accepted bool) {
	if accepted {
		rc.hub.NotifyRequestAccepted(request.Farmer, request)
	} else {
		rc.hub.NotifyRequestStatus(request.Farmer, request)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	farmer, err := rc.userRepo.FindByID(ctx, request.Farmer)
	if err != nil {
		return
	}

	switch {
	case accepted:
		utils.NotifyRequestAccepted(farmer.Email, farmer.Name, request.Reference, providerName)
	case request.Status == models.StatusCompleted && request.FinalCost != nil:
		utils.NotifyRequestCompleted(farmer.Email, farmer.Name, request.Reference, *request.FinalCost)
	}
}
