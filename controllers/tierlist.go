package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/models"
	"tierlist-restful/services"
)

type TierlistController struct {
	handler
	tierlists services.TierlistService
}

func NewTierlistController(tierlists services.TierlistService, validate *Validator, logger *zap.Logger) *TierlistController {
	return &TierlistController{handler: handler{validate: validate, logger: logger}, tierlists: tierlists}
}

func (ctl *TierlistController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/tierlists").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	tags := []string{"tierlists"}

	ws.Route(ws.GET("").To(ctl.listTierlistsHandler).
		Doc("List tierlists with their categories and elements").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]models.TierlistView{}).
		Returns(http.StatusOK, "OK", []models.TierlistView{}))

	ws.Route(ws.GET("/{id}").To(ctl.getTierlistHandler).
		Doc("Get tierlist by ID").
		Param(ws.PathParameter("id", "Identifier of the tierlist").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(models.TierlistView{}).
		Returns(http.StatusOK, "Tierlist found", models.TierlistView{}).
		Returns(http.StatusNotFound, "Tierlist not found", ErrorResponse{}))

	ws.Route(ws.POST("").To(ctl.createTierlistHandler).
		Doc("Create a tierlist owned by an existing user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateTierlistInput{}).
		Returns(http.StatusCreated, "Tierlist created", models.TierlistView{}).
		Returns(http.StatusBadRequest, "Invalid request body", ErrorResponse{}).
		Returns(http.StatusNotFound, "Owner not found", ErrorResponse{}))

	ws.Route(ws.PUT("/{id}").To(ctl.updateTierlistHandler).
		Doc("Overwrite title and description").
		Param(ws.PathParameter("id", "Identifier of the tierlist to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateTierlistInput{}).
		Returns(http.StatusOK, "Tierlist updated", models.TierlistView{}).
		Returns(http.StatusBadRequest, "Invalid request body or tierlist ID", ErrorResponse{}).
		Returns(http.StatusNotFound, "Tierlist not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/{id}").To(ctl.deleteTierlistHandler).
		Doc("Delete a tierlist with its categories and elements").
		Param(ws.PathParameter("id", "Identifier of the tierlist to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Tierlist deleted", MessageResponse{}).
		Returns(http.StatusNotFound, "Tierlist not found", ErrorResponse{}))
}

func (ctl *TierlistController) listTierlistsHandler(request *restful.Request, response *restful.Response) {
	tierlists, err := ctl.tierlists.ListTierlists(request.Request.Context())
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, tierlists, restful.MIME_JSON)
}

func (ctl *TierlistController) getTierlistHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	tierlist, err := ctl.tierlists.GetTierlist(request.Request.Context(), id)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, tierlist, restful.MIME_JSON)
}

func (ctl *TierlistController) createTierlistHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateTierlistInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	tierlist, err := ctl.tierlists.CreateTierlist(request.Request.Context(), input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, tierlist, restful.MIME_JSON)
}

func (ctl *TierlistController) updateTierlistHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	input := new(services.UpdateTierlistInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	tierlist, err := ctl.tierlists.UpdateTierlist(request.Request.Context(), id, input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, tierlist, restful.MIME_JSON)
}

func (ctl *TierlistController) deleteTierlistHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	if err := ctl.tierlists.DeleteTierlist(request.Request.Context(), id); err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Tierlist deleted"}, restful.MIME_JSON)
}
