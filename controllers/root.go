package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/services"
)

type GreetingResponse struct {
	Msg string `json:"msg"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
}

// RootController serves the greeting and the standalone image upload. Both
// live on the root WebService because go-restful allows one service per root
// path.
type RootController struct {
	handler
	images services.ImageService
}

func NewRootController(images services.ImageService, validate *Validator, logger *zap.Logger) *RootController {
	return &RootController{handler: handler{validate: validate, logger: logger}, images: images}
}

func (ctl *RootController) RegisterRoutes(ws *restful.WebService) {
	ws.Path("/").Produces(restful.MIME_JSON)

	for _, builder := range []*restful.RouteBuilder{ws.GET(""), ws.POST(""), ws.PUT(""), ws.DELETE("")} {
		ws.Route(builder.To(ctl.greetingHandler).
			Doc("Say hi").
			Metadata(restfulspec.KeyOpenAPITags, []string{"root"}).
			Returns(http.StatusOK, "OK", GreetingResponse{}))
	}

	tags := []string{"uploads"}
	ws.Route(ws.POST("/upload").To(ctl.uploadHandler).
		Doc("Store an image that elements can reference by filename").
		Param(ws.FormParameter("file", "Image file (png, jpg, jpeg, gif)").DataType("file").Required(true)).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusCreated, "Image stored", UploadResponse{}).
		Returns(http.StatusBadRequest, "File missing or not allowed", ErrorResponse{}).
		Returns(http.StatusRequestEntityTooLarge, "Request body too large", ErrorResponse{}))

	ws.Route(ws.GET("/uploads/{filename}").To(ctl.serveImageHandler).
		Doc("Download a stored image").
		Param(ws.PathParameter("filename", "Stored filename as returned by the upload")).
		Produces("image/png", "image/jpeg", "image/gif", restful.MIME_JSON).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Image content", nil).
		Returns(http.StatusNotFound, "Image not found", ErrorResponse{}))
}

func (ctl *RootController) greetingHandler(_ *restful.Request, response *restful.Response) {
	_ = response.WriteHeaderAndJson(http.StatusOK, GreetingResponse{Msg: "Hola, Tierlist"}, restful.MIME_JSON)
}

func (ctl *RootController) uploadHandler(request *restful.Request, response *restful.Response) {
	if !isMultipart(request) {
		ctl.fail(request, response, apperrors.FileRejected("No file part"))
		return
	}
	body, err := readMultipart(request, "file")
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	defer body.Close()

	upload := body.Upload()
	if upload == nil {
		ctl.fail(request, response, apperrors.FileRejected("No file part"))
		return
	}
	name, err := ctl.images.UploadImage(request.Request.Context(), *upload)
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, UploadResponse{Filename: name}, restful.MIME_JSON)
}

func (ctl *RootController) serveImageHandler(request *restful.Request, response *restful.Response) {
	path, err := ctl.images.ImagePath(request.Request.Context(), request.PathParameter("filename"))
	if err != nil {
		ctl.fail(request, response, err)
		return
	}
	http.ServeFile(response, request.Request, path)
}
