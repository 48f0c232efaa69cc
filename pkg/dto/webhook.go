package dto

type CreateWebhookRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	URL   string `json:"url" validate:"required,url"`
	Event string `json:"event" validate:"required,min=1,max=255"`
}

type LinkRepoRequest struct {
	RepoOwner string `json:"repo_owner" validate:"required,min=1,max=255"`
	RepoName  string `json:"repo_name" validate:"required,min=1,max=255"`
}
