package handlers

import (
	"BrainrotKeeper/internal/export"
	"BrainrotKeeper/internal/format"
	"BrainrotKeeper/internal/inventory"
	"BrainrotKeeper/internal/service"
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxImportBytes — предел тела запроса импорта.
const maxImportBytes = 5 << 20

// InventoryHandler — профили, аккаунты и предметы текущего пользователя.
type InventoryHandler struct {
	Service *service.InventoryService
	Logger  *zap.SugaredLogger
}

func NewInventoryHandler(svc *service.InventoryService, logger *zap.SugaredLogger) *InventoryHandler {
	return &InventoryHandler{Service: svc, Logger: logger}
}

// DTO

type ItemDTO struct {
	ID            string    `json:"id"`
	CatalogName   string    `json:"catalog_name"`
	Rarity        string    `json:"rarity_tier"`
	BaseValue     string    `json:"base_value"`
	ColorName     string    `json:"color_name"`
	MutationNames []string  `json:"mutation_names"`
	AccountName   string    `json:"account_name"`
	TotalValue    string    `json:"total_value"`
	TotalShort    string    `json:"total_short"`
	TotalGrouped  string    `json:"total_grouped"`
	CreatedAt     time.Time `json:"created_at"`
}

type SummaryDTO struct {
	ItemCount       int               `json:"item_count"`
	GrandTotal      string            `json:"grand_total"`
	GrandTotalShort string            `json:"grand_total_short"`
	PerAccount      map[string]string `json:"per_account"`
}

type ProfileDTO struct {
	Name     string     `json:"name"`
	Version  int64      `json:"version"`
	Accounts []string   `json:"accounts"`
	Items    []ItemDTO  `json:"items"`
	Summary  SummaryDTO `json:"summary"`
}

type ItemsDTO struct {
	Items   []ItemDTO  `json:"items"`
	Summary SummaryDTO `json:"summary"`
}

type CatalogEntryDTO struct {
	Name       string `json:"name"`
	Rarity     string `json:"rarity,omitempty"`
	BaseValue  string `json:"base_value,omitempty"`
	Multiplier string `json:"multiplier,omitempty"`
}

type CatalogDTO struct {
	Policy    string            `json:"policy"`
	Items     []CatalogEntryDTO `json:"items"`
	Colors    []CatalogEntryDTO `json:"colors"`
	Mutations []CatalogEntryDTO `json:"mutations"`
}

func toItemDTO(it inventory.InventoryItem) ItemDTO {
	muts := it.MutationNames
	if muts == nil {
		muts = []string{}
	}
	return ItemDTO{
		ID:            it.ID,
		CatalogName:   it.CatalogName,
		Rarity:        it.Rarity,
		BaseValue:     it.BaseValue.String(),
		ColorName:     it.ColorName,
		MutationNames: muts,
		AccountName:   it.AccountName,
		TotalValue:    it.TotalValue.String(),
		TotalShort:    format.Abbrev(it.TotalValue),
		TotalGrouped:  format.Grouped(it.TotalValue),
		CreatedAt:     it.CreatedAt,
	}
}

func toItemDTOs(items []inventory.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toItemDTO(it))
	}
	return out
}

func toSummaryDTO(items []inventory.InventoryItem) SummaryDTO {
	s := inventory.Summarize(items)
	per := make(map[string]string, len(s.PerAccount))
	for k, v := range s.PerAccount {
		per[k] = v.String()
	}
	return SummaryDTO{
		ItemCount:       s.ItemCount,
		GrandTotal:      s.GrandTotal.String(),
		GrandTotalShort: format.Abbrev(s.GrandTotal),
		PerAccount:      per,
	}
}

func toProfileDTO(st inventory.ProfileState) ProfileDTO {
	accounts := st.Accounts
	if accounts == nil {
		accounts = []string{}
	}
	return ProfileDTO{
		Name:     st.Name,
		Version:  st.Version,
		Accounts: accounts,
		Items:    toItemDTOs(st.Items),
		Summary:  toSummaryDTO(st.Items),
	}
}

// Запросы

type nameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type addItemRequest struct {
	CatalogName   string   `json:"catalog_name" validate:"required,max=128"`
	ColorName     string   `json:"color_name" validate:"max=64"`
	MutationNames []string `json:"mutation_names" validate:"max=32,dive,max=64"`
	AccountName   string   `json:"account_name" validate:"max=64"`
}

type moveItemRequest struct {
	AccountName string `json:"account_name" validate:"required,max=64"`
}

// Catalog отдаёт справочник и активную политику.
func (h *InventoryHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat := h.Service.Catalog()
	dto := CatalogDTO{Policy: string(h.Service.Policy())}
	for _, it := range cat.Items() {
		dto.Items = append(dto.Items, CatalogEntryDTO{Name: it.Name, Rarity: it.Rarity, BaseValue: it.BaseValue.String()})
	}
	for _, c := range cat.Colors() {
		dto.Colors = append(dto.Colors, CatalogEntryDTO{Name: c.Name, Multiplier: c.Multiplier.String()})
	}
	for _, m := range cat.Mutations() {
		dto.Mutations = append(dto.Mutations, CatalogEntryDTO{Name: m.Name, Multiplier: m.Multiplier.String()})
	}
	respondJSON(w, http.StatusOK, dto)
}

func (h *InventoryHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.ListProfiles(r.Context(), identity(r))
	if err != nil {
		respondError(w, h.Logger, "ListProfiles", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"profiles": names})
}

func (h *InventoryHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	st, err := h.Service.CreateProfile(r.Context(), identity(r), req.Name)
	if err != nil {
		respondError(w, h.Logger, "CreateProfile", err)
		return
	}
	respondJSON(w, http.StatusCreated, toProfileDTO(st))
}

func (h *InventoryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.GetProfile(r.Context(), identity(r), urlParam(r, "profile"))
	if err != nil {
		respondError(w, h.Logger, "GetProfile", err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileDTO(st))
}

func (h *InventoryHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProfile(r.Context(), identity(r), urlParam(r, "profile")); err != nil {
		respondError(w, h.Logger, "DeleteProfile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	st, err := h.Service.AddAccount(r.Context(), identity(r), urlParam(r, "profile"), req.Name)
	if err != nil {
		respondError(w, h.Logger, "AddAccount", err)
		return
	}
	respondJSON(w, http.StatusCreated, toProfileDTO(st))
}

func (h *InventoryHandler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	st, moved, err := h.Service.RemoveAccount(r.Context(), identity(r), urlParam(r, "profile"), urlParam(r, "account"))
	if err != nil {
		respondError(w, h.Logger, "RemoveAccount", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile":    toProfileDTO(st),
		"reassigned": moved,
	})
}

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Service.ListItems(r.Context(), identity(r), urlParam(r, "profile"), q.Get("sort"), q.Get("account"))
	if err != nil {
		respondError(w, h.Logger, "ListItems", err)
		return
	}
	respondJSON(w, http.StatusOK, ItemsDTO{Items: toItemDTOs(items), Summary: toSummaryDTO(items)})
}

func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	it, err := h.Service.AddItem(r.Context(), identity(r), urlParam(r, "profile"), service.AddItemRequest{
		CatalogName:   req.CatalogName,
		ColorName:     req.ColorName,
		MutationNames: req.MutationNames,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(w, h.Logger, "AddItem", err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemDTO(it))
}

func (h *InventoryHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.RemoveItem(r.Context(), identity(r), urlParam(r, "profile"), urlParam(r, "id")); err != nil {
		respondError(w, h.Logger, "RemoveItem", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	var req moveItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	it, err := h.Service.MoveItem(r.Context(), identity(r), urlParam(r, "profile"), urlParam(r, "id"), req.AccountName)
	if err != nil {
		respondError(w, h.Logger, "MoveItem", err)
		return
	}
	respondJSON(w, http.StatusOK, toItemDTO(it))
}

func (h *InventoryHandler) Revalue(w http.ResponseWriter, r *http.Request) {
	changed, err := h.Service.Revalue(r.Context(), identity(r), urlParam(r, "profile"))
	if err != nil {
		respondError(w, h.Logger, "Revalue", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"changed": changed, "policy": h.Service.Policy()})
}

// Import принимает CSV выгрузки (text/csv) и добавляет строки в профиль.
func (h *InventoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	items, err := export.ParseCSV(r.Body)
	if err != nil {
		respondError(w, h.Logger, "Import", err)
		return
	}
	n, err := h.Service.ImportItems(r.Context(), identity(r), urlParam(r, "profile"), items)
	if err != nil {
		respondError(w, h.Logger, "Import", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// Export отдаёт предметы профиля в CSV (по умолчанию) или XLSX.
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	profile := urlParam(r, "profile")
	q := r.URL.Query()
	items, err := h.Service.ListItems(r.Context(), identity(r), profile, q.Get("sort"), q.Get("account"))
	if err != nil {
		respondError(w, h.Logger, "Export", err)
		return
	}

	filename := safeFilename(profile)
	switch strings.ToLower(q.Get("format")) {
	case "", "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, items); err != nil {
			respondError(w, h.Logger, "Export", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
		_, _ = w.Write(buf.Bytes())
	case "xlsx":
		data, err := export.XLSX(items)
		if err != nil {
			respondError(w, h.Logger, "Export", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
		_, _ = w.Write(data)
	default:
		respondMessage(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "inventory"
	}
	return b.String()
}
