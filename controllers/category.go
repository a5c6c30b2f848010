package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/models"
	"tierlist-restful/services"
)

type CategoryController struct {
	handler
	categories services.CategoryService
}

func NewCategoryController(categories services.CategoryService, validate *Validator, logger *zap.Logger) *CategoryController {
	return &CategoryController{handler: handler{validate: validate, logger: logger}, categories: categories}
}

func (ctl *CategoryController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/categories").Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	tags := []string{"categories"}

	ws.Route(ws.GET("").To(ctl.listCategoriesHandler).
		Doc("List categories with their elements").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]models.CategoryView{}).
		Returns(http.StatusOK, "OK", []models.CategoryView{}))

	ws.Route(ws.GET("/{id}").To(ctl.getCategoryHandler).
		Doc("Get category by ID").
		Param(ws.PathParameter("id", "Identifier of the category").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(models.CategoryView{}).
		Returns(http.StatusOK, "Category found", models.CategoryView{}).
		Returns(http.StatusNotFound, "Category not found", ErrorResponse{}))

	ws.Route(ws.POST("").To(ctl.createCategoryHandler).
		Doc("Create a category in an existing tierlist").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateCategoryInput{}).
		Returns(http.StatusCreated, "Category created", models.CategoryView{}).
		Returns(http.StatusBadRequest, "Invalid request body", ErrorResponse{}).
		Returns(http.StatusNotFound, "Tierlist not found", ErrorResponse{}))

	ws.Route(ws.PUT("/{id}").To(ctl.updateCategoryHandler).
		Doc("Overwrite name and order").
		Param(ws.PathParameter("id", "Identifier of the category to update").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateCategoryInput{}).
		Returns(http.StatusOK, "Category updated", models.CategoryView{}).
		Returns(http.StatusBadRequest, "Invalid request body or category ID", ErrorResponse{}).
		Returns(http.StatusNotFound, "Category not found", ErrorResponse{}))

	ws.Route(ws.DELETE("/{id}").To(ctl.deleteCategoryHandler).
		Doc("Delete a category with its elements").
		Param(ws.PathParameter("id", "Identifier of the category to delete").DataType("integer")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Category deleted", MessageResponse{}).
		Returns(http.StatusNotFound, "Category not found", ErrorResponse{}))
}

func (ctl *CategoryController) listCategoriesHandler(request *restful.Request, response *restful.Response) {
	categories, err := ctl.categories.ListCategories(request.Request.Context())
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, categories, restful.MIME_JSON)
}

func (ctl *CategoryController) getCategoryHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	category, err := ctl.categories.GetCategory(request.Request.Context(), id)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, category, restful.MIME_JSON)
}

func (ctl *CategoryController) createCategoryHandler(request *restful.Request, response *restful.Response) {
	input := new(services.CreateCategoryInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	category, err := ctl.categories.CreateCategory(request.Request.Context(), input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, category, restful.MIME_JSON)
}

func (ctl *CategoryController) updateCategoryHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	input := new(services.UpdateCategoryInput)
	if err := ctl.decode(request, input); err != nil {
		ctl.fail(request, response, err)
		return
	}
	category, err := ctl.categories.UpdateCategory(request.Request.Context(), id, input)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, category, restful.MIME_JSON)
}

func (ctl *CategoryController) deleteCategoryHandler(request *restful.Request, response *restful.Response) {
	id, err := pathID(request)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	if err := ctl.categories.DeleteCategory(request.Request.Context(), id); err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, MessageResponse{Message: "Category deleted"}, restful.MIME_JSON)
}
