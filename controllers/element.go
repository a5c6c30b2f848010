package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/models"
	"tierlist-restful/services"
)

const mimeMultipart = "multipart/form-data"

type ElementController struct {
	handler
	elements services.ElementService
}

func NewElementController(elements services.ElementService, validate *Validator, logger *zap.Logger) *ElementController {
	return &ElementController{handler: handler{validate: validate, logger: logger}, elements: elements}
}

// RegisterRoutes sets up the element routes. Create and update take either
// JSON, where img names an already uploaded file, or a multipart form with
// an optional img file part.
func (ctl *ElementController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/elements").Consumes(restful.MIME_JSON, mimeMultipart).Produces(restful.MIME_JSON)
	tags := []string{"elements"}

	ws.Route(ws.GET("").To(ctl.listElementsHandler).
		Doc("List elements").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]models.ElementView{}).
		Returns(http.StatusOK, "OK", []models.ElementView{}))

	ws.Route(ws.GET("/{id}").To(ctl.getElementHandler).
		Doc("Get element by ID").
		Param(ws.PathParameter("id", "Identifier of the element").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(models.ElementView{}).
		Returns(http.StatusOK, "Element found", models.ElementView{}).
		Returns(http.StatusNotFound, "Element not found", ErrorResponse{}))

	ws.Route(ws.POST("").To(ctl.createElementHandler).
		Doc("Create an element in an existing category").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateElementInput{}).
		Param(ws.FormParameter("category_id", "Parent category (multipart)").DataType("integer")).
		Param(ws.FormParameter("name", "Element name (multipart)").DataType("string")).
		Param(ws.FormParameter("img", "Image file (multipart, optional)").DataType("file")).
		Returns(http.StatusCreated, "Element created", models.ElementView{}).
		Returns(http.StatusBadRequest, "Invalid request body or image", ErrorResponse{}).
		Returns(http.StatusNotFound, "Category not found", ErrorResponse{}).
		Returns(http.StatusRequestEntityTooLarge, "Request body too large", ErrorResponse{}))

	ws.Route(ws.PUT("/{id}").To(ctl.updateElementHandler).
		Doc("Overwrite name and image").
		Param(ws.PathParameter("id", "Identifier of the element to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateElementInput{}).
		Param(ws.FormParameter("name", "Element name (multipart)").DataType("string")).
		Param(ws.FormParameter("img", "Replacement image (multipart, optional)").DataType("file")).
		Returns(http.StatusOK, "Element updated", models.ElementView{}).
		Returns(http.StatusBadRequest, "Invalid request body, image or element ID", ErrorResponse{}).
		Returns(http.StatusNotFound, "Element not found", ErrorResponse{}).
		Returns(http.StatusRequestEntityTooLarge, "Request body too large", ErrorResponse{}))

	ws.Route(ws.DELETE("/{id}").To(ctl.deleteElementHandler).
		Doc("Delete an element").
		Param(ws.PathParameter("id", "Identifier of the element to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Element deleted", MessageResponse{}).
		Returns(http.StatusNotFound, "Element not found", ErrorResponse{}))
}

func (ctl *ElementController) listElementsHandler(request *restful.Request, response *restful.Response) {
	elements, err := ctl.elements.ListElements(request.Request.Context())
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, elements, restful.MIME_JSON)
}

func (ctl *ElementController) getElementHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	element, err := ctl.elements.GetElement(request.Request.Context(), id)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, element, restful.MIME_JSON)
}

func (ctl *ElementController) createElementHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateElementInput)
	var upload *services.ImageUpload

	if isMultipart(request) {
		body, err := readMultipart(request, "img")
		if err != nil {
			ctl.fail(request, response, err)
			return
		}
		defer body.Close()
		if input.CategoryID, err = body.Uint("category_id"); err != nil {
			ctl.fail(request, response, err)
			return
		}
		input.Name = body.Value("name")
		upload = body.Upload()
		if err := ctl.validate.Struct(input); err != nil {
			ctl.fail(request, response, err)
			return
		}
	} else if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}

	element, err := ctl.elements.CreateElement(request.Request.Context(), input, upload)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, element, restful.MIME_JSON)
}

func (ctl *ElementController) updateElementHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	input := new(services.UpdateElementInput)
	var upload *services.ImageUpload

	if isMultipart(request) {
		body, err := readMultipart(request, "img")
		if err != nil {
			ctl.fail(request, response, err)
			return
		}
		defer body.Close()
		input.Name = body.Value("name")
		upload = body.Upload()
		input.KeepImage = upload == nil
		if err := ctl.validate.Struct(input); err != nil {
			ctl.fail(request, response, err)
			return
		}
	} else if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}

	element, err := ctl.elements.UpdateElement(request.Request.Context(), id, input, upload)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, element, restful.MIME_JSON)
}

func (ctl *ElementController) deleteElementHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	if err := ctl.elements.DeleteElement(request.Request.Context(), id); err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Element deleted"}, restful.MIME_JSON)
}
