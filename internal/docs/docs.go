// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con `swag init -g cmd/api/main.go -o internal/docs` al cambiar anotaciones.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Health check",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": [
                    "tasks"
                ],
                "summary": "Listar mis tareas",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            },
            "post": {
                "tags": [
                    "tasks"
                ],
                "summary": "Crear tarea",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/tasks/{taskID}": {
            "get": {
                "tags": [
                    "tasks"
                ],
                "summary": "Obtener tarea",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "taskID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "tasks"
                ],
                "summary": "Actualizar tarea (completar paga recompensa)",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "taskID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "tasks"
                ],
                "summary": "Borrar tarea",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "taskID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Listar mis mascotas",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            },
            "post": {
                "tags": [
                    "pets"
                ],
                "summary": "Crear mascota",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/pets/current": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Mascota actual",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Obtener mascota",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "patch": {
                "tags": [
                    "pets"
                ],
                "summary": "Renombrar mascota",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/pets/{petID}/play": {
            "post": {
                "tags": [
                    "pets"
                ],
                "summary": "Jugar con la mascota",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/feed": {
            "post": {
                "tags": [
                    "pets"
                ],
                "summary": "Alimentar mascota",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/me/inventory": {
            "get": {
                "tags": [
                    "inventory"
                ],
                "summary": "Mi inventario",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            }
        },
        "/me/inventory/items": {
            "post": {
                "tags": [
                    "inventory"
                ],
                "summary": "Agregar item",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/me/inventory/coins": {
            "put": {
                "tags": [
                    "inventory"
                ],
                "summary": "Ajustar monedas",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/me/inventory/purchase": {
            "post": {
                "tags": [
                    "inventory"
                ],
                "summary": "Comprar item del catálogo",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/shop/items": {
            "get": {
                "tags": [
                    "shop"
                ],
                "summary": "Catálogo de la tienda",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            }
        },
        "/me/engagement": {
            "get": {
                "tags": [
                    "engagement"
                ],
                "summary": "Estadísticas de la semana",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            }
        },
        "/me/preferences": {
            "get": {
                "tags": [
                    "preferences"
                ],
                "summary": "Mis preferencias",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                }
            }
        },
        "/me/preferences/{key}": {
            "put": {
                "tags": [
                    "preferences"
                ],
                "summary": "Guardar preferencia",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "key",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "preferences"
                ],
                "summary": "Borrar preferencia",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "unauthorized"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "key",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task Buddy API",
	Description:      "Tareas con recompensa, mascota virtual, inventario y tienda.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
