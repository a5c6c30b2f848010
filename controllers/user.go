package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/models"
	"tierlist-restful/services"
)

type UserController struct {
	handler
	users services.UserService
}

func NewUserController(users services.UserService, validate *Validator, logger *zap.Logger) *UserController {
	return &UserController{handler: handler{validate: validate, logger: logger}, users: users}
}

// RegisterRoutes sets up the user routes on ws.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/users").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	tags := []string{"users"}

	ws.Route(ws.GET("").To(ctl.listUsersHandler).
		Doc("List users with their tierlists").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]models.UserView{}).
		Returns(http.StatusOK, "OK", []models.UserView{}))

	ws.Route(ws.GET("/{id}").To(ctl.getUserHandler).
		Doc("Get user by ID").
		Param(ws.PathParameter("id", "Identifier of the user").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(models.UserView{}).
		Returns(http.StatusOK, "User found", models.UserView{}).
		Returns(http.StatusBadRequest, "Invalid user ID", ErrorResponse{}).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}))

	ws.Route(ws.POST("").To(ctl.createUserHandler).
		Doc("Create a user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateUserInput{}).
		Returns(http.StatusCreated, "User created", models.UserView{}).
		Returns(http.StatusBadRequest, "Invalid request body", ErrorResponse{}).
		Returns(http.StatusConflict, "Email already in use", ErrorResponse{}))

	ws.Route(ws.PUT("/{id}").To(ctl.updateUserHandler).
		Doc("Update user by ID").
		Param(ws.PathParameter("id", "Identifier of the user to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateUserInput{}).
		Returns(http.StatusOK, "User updated", models.UserView{}).
		Returns(http.StatusBadRequest, "Invalid request body or user ID", ErrorResponse{}).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}).
		Returns(http.StatusConflict, "Email already in use", ErrorResponse{}))

	ws.Route(ws.DELETE("/{id}").To(ctl.deleteUserHandler).
		Doc("Delete a user that owns no tierlists").
		Param(ws.PathParameter("id", "Identifier of the user to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "User deleted", MessageResponse{}).
		Returns(http.StatusNotFound, "User not found", ErrorResponse{}).
		Returns(http.StatusConflict, "User still owns tierlists", ErrorResponse{}))
}

func (ctl *UserController) listUsersHandler(request *restful.Request, response *restful.Response) {
	users, err := ctl.users.ListUsers(request.Request.Context())
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, users, restful.MIME_JSON)
}

func (ctl *UserController) getUserHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	user, err := ctl.users.GetUser(request.Request.Context(), id)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, user, restful.MIME_JSON)
}

func (ctl *UserController) createUserHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateUserInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	user, err := ctl.users.CreateUser(request.Request.Context(), input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, user, restful.MIME_JSON)
}

func (ctl *UserController) updateUserHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	input := new(services.UpdateUserInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	user, err := ctl.users.UpdateUser(request.Request.Context(), id, input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, user, restful.MIME_JSON)
}

func (ctl *UserController) deleteUserHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	if err := ctl.users.DeleteUser(request.Request.Context(), id); err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "User deleted"}, restful.MIME_JSON)
}
