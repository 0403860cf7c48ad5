package tax

// ICMSCode is an ICMS tax situation code: a two-digit CST for regular
// taxpayers or a three-digit CSOSN for Simples Nacional.
type ICMSCode string

const (
	ICMS00 ICMSCode = "00" // tributada integralmente
	ICMS10 ICMSCode = "10" // tributada com cobrança de ST
	ICMS20 ICMSCode = "20" // com redução de base
	ICMS30 ICMSCode = "30" // isenta ou não tributada com cobrança de ST
	ICMS40 ICMSCode = "40" // isenta
	ICMS41 ICMSCode = "41" // não tributada
	ICMS50 ICMSCode = "50" // suspensão
	ICMS51 ICMSCode = "51" // diferimento
	ICMS60 ICMSCode = "60" // cobrada anteriormente por ST
	ICMS70 ICMSCode = "70" // redução de base com cobrança de ST
	ICMS90 ICMSCode = "90" // outras

	CSOSN101 ICMSCode = "101"
	CSOSN102 ICMSCode = "102"
	CSOSN103 ICMSCode = "103"
	CSOSN201 ICMSCode = "201"
	CSOSN202 ICMSCode = "202"
	CSOSN203 ICMSCode = "203"
	CSOSN300 ICMSCode = "300"
	CSOSN400 ICMSCode = "400"
	CSOSN500 ICMSCode = "500"
	CSOSN900 ICMSCode = "900"
)

// ICMSCodes lists every ICMS code with a dedicated strategy.
var ICMSCodes = []ICMSCode{
	ICMS00, ICMS10, ICMS20, ICMS30, ICMS40, ICMS41, ICMS50, ICMS51, ICMS60, ICMS70, ICMS90,
	CSOSN101, CSOSN102, CSOSN103, CSOSN201, CSOSN202, CSOSN203, CSOSN300, CSOSN400, CSOSN500, CSOSN900,
}

// IPICode is an IPI tax situation code.
type IPICode string

const (
	IPI00 IPICode = "00" // entrada com recuperação de crédito
	IPI01 IPICode = "01" // entrada tributada com alíquota zero
	IPI02 IPICode = "02" // entrada isenta
	IPI03 IPICode = "03" // entrada não tributada
	IPI04 IPICode = "04" // entrada imune
	IPI05 IPICode = "05" // entrada com suspensão
	IPI49 IPICode = "49" // outras entradas
	IPI50 IPICode = "50" // saída tributada
	IPI51 IPICode = "51" // saída tributada com alíquota zero
	IPI52 IPICode = "52" // saída isenta
	IPI53 IPICode = "53" // saída não tributada
	IPI54 IPICode = "54" // saída imune
	IPI55 IPICode = "55" // saída com suspensão
	IPI99 IPICode = "99" // outras saídas
)

// IPICodes lists every IPI code with a dedicated strategy.
var IPICodes = []IPICode{
	IPI00, IPI01, IPI02, IPI03, IPI04, IPI05, IPI49,
	IPI50, IPI51, IPI52, IPI53, IPI54, IPI55, IPI99,
}

// ContributionCode is a PIS/COFINS tax situation code. Both contributions
// share the same code table.
type ContributionCode string

const (
	Contribution01 ContributionCode = "01" // alíquota básica
	Contribution02 ContributionCode = "02" // alíquota diferenciada
	Contribution03 ContributionCode = "03" // alíquota por unidade de medida
	Contribution04 ContributionCode = "04" // monofásica, revenda a alíquota zero
	Contribution05 ContributionCode = "05" // substituição tributária
	Contribution06 ContributionCode = "06" // alíquota zero
	Contribution07 ContributionCode = "07" // isenta
	Contribution08 ContributionCode = "08" // sem incidência
	Contribution09 ContributionCode = "09" // suspensão
	Contribution49 ContributionCode = "49" // outras operações de saída
	Contribution50 ContributionCode = "50"
	Contribution51 ContributionCode = "51"
	Contribution52 ContributionCode = "52"
	Contribution53 ContributionCode = "53"
	Contribution54 ContributionCode = "54"
	Contribution55 ContributionCode = "55"
	Contribution56 ContributionCode = "56"
	Contribution60 ContributionCode = "60"
	Contribution61 ContributionCode = "61"
	Contribution62 ContributionCode = "62"
	Contribution63 ContributionCode = "63"
	Contribution64 ContributionCode = "64"
	Contribution65 ContributionCode = "65"
	Contribution66 ContributionCode = "66"
	Contribution67 ContributionCode = "67"
	Contribution70 ContributionCode = "70" // aquisição sem direito a crédito
	Contribution71 ContributionCode = "71"
	Contribution72 ContributionCode = "72"
	Contribution73 ContributionCode = "73"
	Contribution74 ContributionCode = "74"
	Contribution75 ContributionCode = "75"
	Contribution98 ContributionCode = "98" // outras operações de entrada
	Contribution99 ContributionCode = "99" // outras operações
)

// ContributionCodes lists every PIS/COFINS code with a dedicated strategy.
var ContributionCodes = []ContributionCode{
	Contribution01, Contribution02, Contribution03, Contribution04, Contribution05,
	Contribution06, Contribution07, Contribution08, Contribution09, Contribution49,
	Contribution50, Contribution51, Contribution52, Contribution53, Contribution54,
	Contribution55, Contribution56, Contribution60, Contribution61, Contribution62,
	Contribution63, Contribution64, Contribution65, Contribution66, Contribution67,
	Contribution70, Contribution71, Contribution72, Contribution73, Contribution74,
	Contribution75, Contribution98, Contribution99,
}
