package controllers

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tierlist-restful/filters"
	"tierlist-restful/services"
)

const apiDocsPath = "/apidocs.json"

type Services struct {
	Users      services.UserService
	Tierlists  services.TierlistService
	Categories services.CategoryService
	Elements   services.ElementService
	Images     services.ImageService
}

type ContainerOptions struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// NewContainer registers every resource, the filter chain, the OpenAPI
// document and the Prometheus endpoint on a fresh container.
func NewContainer(svc Services, opts ContainerOptions, logger *zap.Logger) *restful.Container {
	container := restful.NewContainer()
	container.ServiceErrorHandler(ServiceErrorHandler)
	container.RecoverHandler(RecoverHandler(logger))

	validate := NewValidator()
	registrars := []interface{ RegisterRoutes(*restful.WebService) }{
		NewRootController(svc.Images, validate, logger),
		NewUserController(svc.Users, validate, logger),
		NewTierlistController(svc.Tierlists, validate, logger),
		NewCategoryController(svc.Categories, validate, logger),
		NewElementController(svc.Elements, validate, logger),
	}
	for _, r := range registrars {
		ws := new(restful.WebService)
		r.RegisterRoutes(ws)
		container.Add(ws)
	}

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       apiDocsPath,
		PostBuildSwaggerObjectHandler: describeAPI,
	}))
	container.Handle("/metrics", promhttp.Handler())

	onError := func(request *restful.Request, response *restful.Response, err error) {
		writeError(logger, request, response, err)
	}
	for _, f := range filters.Chain(logger, opts.MaxBodyBytes, onError) {
		container.Filter(f)
	}
	cors := filters.CORS(container, opts.AllowedOrigins)
	container.Filter(cors.Filter)
	container.Filter(container.OPTIONSFilter)
	return container
}

func describeAPI(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Tierlist API",
			Description: "Users, tierlists, categories and elements with image uploads",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "users"}},
		{TagProps: spec.TagProps{Name: "tierlists"}},
		{TagProps: spec.TagProps{Name: "categories"}},
		{TagProps: spec.TagProps{Name: "elements"}},
		{TagProps: spec.TagProps{Name: "uploads"}},
	}
}
