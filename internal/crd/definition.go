// Package crd registers the H2O custom resource schema with the API server
// and tells when the API server accepted it.
package crd

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
)

// Definition returns the CustomResourceDefinition for H2O clusters.
func Definition() *apiextensionsv1.CustomResourceDefinition {
	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: apiextensionsv1.SchemeGroupVersion.String(),
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{Name: h2ov1.ResourceName},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: h2ov1.GroupVersion.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Kind:       h2ov1.Kind,
				ListKind:   h2ov1.Kind + "List",
				Plural:     h2ov1.Plural,
				Singular:   h2ov1.Singular,
				ShortNames: []string{h2ov1.ShortName},
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{{
				Name:    h2ov1.GroupVersion.Version,
				Served:  true,
				Storage: true,
				Schema: &apiextensionsv1.CustomResourceValidation{
					OpenAPIV3Schema: rootSchema(),
				},
				Subresources: &apiextensionsv1.CustomResourceSubresources{
					Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
				},
				AdditionalPrinterColumns: []apiextensionsv1.CustomResourceColumnDefinition{
					{Name: "Nodes", Type: "integer", JSONPath: ".spec.nodes"},
					{Name: "Ready", Type: "integer", JSONPath: ".status.readyNodes"},
					{Name: "Phase", Type: "string", JSONPath: ".status.phase"},
					{Name: "Age", Type: "date", JSONPath: ".metadata.creationTimestamp"},
				},
			}},
		},
	}
}

func rootSchema() *apiextensionsv1.JSONSchemaProps {
	return &apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"apiVersion": {Type: "string"},
			"kind":       {Type: "string"},
			"metadata":   {Type: "object"},
			"spec":       specSchema(),
			"status":     statusSchema(),
		},
	}
}

func specSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"nodes", "resources"},
		OneOf: []apiextensionsv1.JSONSchemaProps{
			{Required: []string{"version"}},
			{Required: []string{"customImage"}},
		},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"nodes": {
				Type:    "integer",
				Format:  "int32",
				Minimum: ptr.To(1.0),
			},
			"version": {Type: "string"},
			"customImage": {
				Type:     "object",
				Required: []string{"image"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"image":   {Type: "string", MinLength: ptr.To[int64](1)},
					"command": {Type: "string"},
				},
			},
			"resources": {
				Type:     "object",
				Required: []string{"cpu", "memory"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"cpu": {
						Type:    "integer",
						Format:  "int32",
						Minimum: ptr.To(1.0),
					},
					"memory": {
						Type:    "string",
						Pattern: h2ov1.MemoryPattern,
					},
					"memoryPercentage": {
						Type:    "integer",
						Format:  "int32",
						Minimum: ptr.To(1.0),
						Maximum: ptr.To(100.0),
					},
				},
			},
		},
	}
}

func statusSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"phase":              {Type: "string"},
			"readyNodes":         {Type: "integer", Format: "int32"},
			"observedGeneration": {Type: "integer", Format: "int64"},
			"conditions": {
				Type: "array",
				Items: &apiextensionsv1.JSONSchemaPropsOrArray{
					Schema: &apiextensionsv1.JSONSchemaProps{
						Type:                   "object",
						XPreserveUnknownFields: ptr.To(true),
						Required:               []string{"type", "status"},
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"type":               {Type: "string"},
							"status":             {Type: "string"},
							"reason":             {Type: "string"},
							"message":            {Type: "string"},
							"lastTransitionTime": {Type: "string", Format: "date-time"},
							"observedGeneration": {Type: "integer", Format: "int64"},
						},
					},
				},
			},
		},
	}
}
