package services

import (
	"context"
	"io"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/tealeg/xlsx"
)

const exportPageSize = 500

type ProductLister interface {
	List(ctx context.Context, search string, limit, offset int) ([]model.Product, error)
}

type CardLister interface {
	List(ctx context.Context, game, search string, limit, offset int) ([]model.Card, error)
}

type ExportService struct {
	Orders   OrderReader
	Products ProductLister
	Cards    CardLister
}

func NewExportService(or OrderReader, pl ProductLister, cl CardLister) *ExportService {
	return &ExportService{Orders: or, Products: pl, Cards: cl}
}

func (s *ExportService) WriteOrders(ctx context.Context, w io.Writer) error {
	orders, err := s.Orders.ListAll(ctx, nil)
	if err != nil {
		return err
	}
	file, err := ordersWorkbook(orders)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// WriteProducts exports the live catalog, one sheet per item type.
func (s *ExportService) WriteProducts(ctx context.Context, w io.Writer) error {
	var products []model.Product
	for offset := 0; ; offset += exportPageSize {
		page, err := s.Products.List(ctx, "", exportPageSize, offset)
		if err != nil {
			return err
		}
		products = append(products, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	var cards []model.Card
	for offset := 0; ; offset += exportPageSize {
		page, err := s.Cards.List(ctx, "", "", exportPageSize, offset)
		if err != nil {
			return err
		}
		cards = append(cards, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	file, err := catalogWorkbook(products, cards)
	if err != nil {
		return err
	}
	return file.Write(w)
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}

func ordersWorkbook(orders []model.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	addHeader(sheet, "ID", "Reference", "UserID", "Status", "PaymentMode", "Total", "CreatedAt")

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt64(o.OrderID)
		row.AddCell().SetString(o.Reference)
		row.AddCell().SetInt64(o.UserID)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentMode))
		row.AddCell().SetString(o.Total.StringFixed(2))
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func catalogWorkbook(products []model.Product, cards []model.Card) (*xlsx.File, error) {
	file := xlsx.NewFile()

	ps, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}
	addHeader(ps, "ID", "Name", "Description", "Price", "Stock")
	for _, p := range products {
		row := ps.AddRow()
		row.AddCell().SetInt64(p.ProductID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetInt(p.Stock)
	}

	cs, err := file.AddSheet("Cards")
	if err != nil {
		return nil, err
	}
	addHeader(cs, "ID", "Name", "Game", "Set", "Rarity", "Condition", "Price", "Stock")
	for _, c := range cards {
		row := cs.AddRow()
		row.AddCell().SetInt64(c.CardID)
		row.AddCell().SetString(c.Name)
		row.AddCell().SetString(c.Game)
		row.AddCell().SetString(c.SetName)
		row.AddCell().SetString(c.Rarity)
		row.AddCell().SetString(c.Condition)
		row.AddCell().SetString(c.Price.StringFixed(2))
		row.AddCell().SetInt(c.Stock)
	}
	return file, nil
}
